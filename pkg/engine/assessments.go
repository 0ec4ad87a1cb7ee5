package engine

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/strokecare/platform/pkg/access"
	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/dashboard"
	"github.com/strokecare/platform/pkg/guidance"
	"github.com/strokecare/platform/pkg/observability/metrics"
	"github.com/strokecare/platform/pkg/scoring"
	"github.com/strokecare/platform/pkg/store"
)

// SubmitAssessment scores form for the viewer and stores the result. Nothing
// is stored when validation or remote scoring fails.
func (e *Engine) SubmitAssessment(ctx context.Context, v models.Viewer, form models.FormData) (models.HealthAssessment, error) {
	if err := access.Require(v, access.SubmitAssessment); err != nil {
		return models.HealthAssessment{}, err
	}
	if err := scoring.Validate(form); err != nil {
		metrics.ObserveRejectedAssessment()
		return models.HealthAssessment{}, err
	}

	result, err := e.score(ctx, form)
	if err != nil {
		return models.HealthAssessment{}, err
	}

	rec, err := e.store.Append(ctx, store.Assessments, models.HealthAssessment{
		Timestamp:       e.now(),
		PatientEmail:    v.Email,
		FormData:        form,
		TotalScore:      result.Score,
		RiskLevel:       result.Level,
		Stage:           result.Stage,
		Color:           result.Color,
		Message:         result.Message,
		Recommendations: result.Recommendations,
	})
	if err != nil {
		return models.HealthAssessment{}, err
	}
	assessment := rec.(models.HealthAssessment)

	if e.slot != nil {
		if err := e.slot.Put(ctx, assessment); err != nil {
			logger.WithViewer(v.Email, string(v.Role)).WithError(err).Warn("Current result not cached")
		}
	}

	metrics.ObserveAssessment(assessment.RiskLevel)
	logger.WithViewer(v.Email, string(v.Role)).WithFields(logrus.Fields{
		"assessment_id": assessment.ID,
		"total_score":   assessment.TotalScore,
		"risk_level":    assessment.RiskLevel,
	}).Info("Assessment recorded")

	e.publish(ctx, e.assessments, models.EventAssessmentCreated, v.Email, map[string]interface{}{
		"assessment_id": strconv.FormatInt(assessment.ID, 10),
		"patient_email": assessment.PatientEmail,
		"total_score":   assessment.TotalScore,
		"risk_level":    string(assessment.RiskLevel),
	})
	return assessment, nil
}

func (e *Engine) score(ctx context.Context, form models.FormData) (scoring.Result, error) {
	if e.remote == nil {
		return scoring.Evaluate(form, e.catalog)
	}
	remote, err := e.remote.Assess(ctx, form)
	if err != nil {
		return scoring.Result{}, err
	}
	result := scoring.FromScore(remote.Score, form, e.catalog)
	if len(remote.Recommendations) > 0 {
		result.Recommendations = remote.Recommendations
	}
	return result, nil
}

// CurrentResult returns the cached latest result, falling back to the newest
// stored assessment when no cache is configured.
func (e *Engine) CurrentResult(ctx context.Context, v models.Viewer) (models.HealthAssessment, error) {
	if err := access.Require(v, access.ViewPatientDashboard); err != nil {
		return models.HealthAssessment{}, err
	}
	if e.slot != nil {
		return e.slot.Get(ctx, v.Email)
	}
	history, err := e.History(ctx, v)
	if err != nil {
		return models.HealthAssessment{}, err
	}
	if len(history) == 0 {
		return models.HealthAssessment{}, models.NewNotFoundError("current result", v.Email)
	}
	return history[0], nil
}

func (e *Engine) ClearCurrentResult(ctx context.Context, v models.Viewer) error {
	if err := access.Require(v, access.ViewPatientDashboard); err != nil {
		return err
	}
	if e.slot == nil {
		return nil
	}
	return e.slot.Clear(ctx, v.Email)
}

// History lists the viewer's own assessments, newest first.
func (e *Engine) History(ctx context.Context, v models.Viewer) ([]models.HealthAssessment, error) {
	if err := access.Require(v, access.ViewPatientDashboard); err != nil {
		return nil, err
	}
	own, err := store.ListAs[models.HealthAssessment](ctx, e.store, store.Assessments, store.Filter{PatientEmail: v.Email})
	if err != nil {
		return nil, err
	}
	return dashboard.NewestFirst(own), nil
}

// DeleteAssessment removes one of the viewer's own history entries. Grants
// already made from it keep their copy.
func (e *Engine) DeleteAssessment(ctx context.Context, v models.Viewer, id int64) error {
	if err := access.Require(v, access.DeleteAssessment); err != nil {
		return err
	}
	all, err := store.ListAs[models.HealthAssessment](ctx, e.store, store.Assessments, store.Filter{})
	if err != nil {
		return err
	}

	kept := make([]models.HealthAssessment, 0, len(all))
	found := false
	for _, a := range all {
		if a.ID == id && a.PatientEmail == v.Email {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return models.NewNotFoundError("assessment", strconv.FormatInt(id, 10))
	}
	if err := e.store.Replace(ctx, store.Assessments, toRecords(kept)); err != nil {
		return err
	}

	if e.slot != nil {
		if cur, err := e.slot.Get(ctx, v.Email); err == nil && cur.ID == id {
			if err := e.slot.Clear(ctx, v.Email); err != nil {
				logger.WithViewer(v.Email, string(v.Role)).WithError(err).Warn("Current result not cleared")
			}
		}
	}
	logger.WithViewer(v.Email, string(v.Role)).WithField("assessment_id", id).Info("Assessment deleted")
	return nil
}

// DietPlan derives diet advice from the viewer's newest assessment.
func (e *Engine) DietPlan(ctx context.Context, v models.Viewer) (guidance.DietPlan, error) {
	history, err := e.History(ctx, v)
	if err != nil {
		return guidance.DietPlan{}, err
	}
	if len(history) == 0 {
		return guidance.DietPlan{}, models.NewNotFoundError("assessment", "")
	}
	latest := history[0]
	return e.catalog.DietPlan(latest.RiskLevel, latest.FormData), nil
}
