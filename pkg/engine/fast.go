package engine

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/strokecare/platform/pkg/access"
	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/dashboard"
	"github.com/strokecare/platform/pkg/fast"
	"github.com/strokecare/platform/pkg/observability/metrics"
	"github.com/strokecare/platform/pkg/store"
)

type FASTResult struct {
	Record           models.FASTTestRecord `json:"record"`
	Outcome          fast.Outcome          `json:"outcome"`
	NotifiedCount    int                   `json:"notifiedCaregivers"`
	SideEffectErrors []error               `json:"-"`
}

// SideEffectMessages renders side effect failures for API responses.
func (r FASTResult) SideEffectMessages() []string {
	out := make([]string, 0, len(r.SideEffectErrors))
	for _, err := range r.SideEffectErrors {
		out = append(out, err.Error())
	}
	return out
}

// SubmitFAST evaluates and stores a completed FAST test. An incomplete test is
// rejected without storing anything. Alert and caregiver message failures are
// collected in the result and never undo the stored record.
func (e *Engine) SubmitFAST(ctx context.Context, v models.Viewer, obs models.FASTResults) (FASTResult, error) {
	if err := access.Require(v, access.SubmitFAST); err != nil {
		return FASTResult{}, err
	}
	if err := fast.ValidateObservations(obs); err != nil {
		return FASTResult{}, err
	}

	outcome := fast.Evaluate(obs)
	metrics.ObserveFAST(string(outcome.State))
	if outcome.State == fast.StateIncomplete {
		return FASTResult{Outcome: outcome}, models.NewValidationError("results", "face, arms and speech must all be checked")
	}

	now := e.now()
	rec, err := e.store.Append(ctx, store.FASTTests, models.FASTTestRecord{
		Timestamp:    now,
		PatientEmail: v.Email,
		Results:      obs,
		Emergency:    outcome.Emergency,
	})
	if err != nil {
		return FASTResult{}, err
	}
	result := FASTResult{Record: rec.(models.FASTTestRecord), Outcome: outcome}

	log := logger.WithViewer(v.Email, string(v.Role)).WithFields(logrus.Fields{
		"fast_test_id": result.Record.ID,
		"state":        outcome.State,
	})
	if !outcome.Emergency {
		log.Info("FAST test recorded")
		return result, nil
	}

	grants, err := store.ListAs[models.SharedRecordGrant](ctx, e.store, store.SharedRecords, store.Filter{
		PatientEmail:  v.Email,
		RecipientRole: models.RoleCaregiver,
	})
	if err != nil {
		result.SideEffectErrors = append(result.SideEffectErrors, &models.SideEffectError{Effect: "list_caregivers", Target: v.Email, Err: err})
	}

	for _, cmd := range fast.Plan(v.Email, outcome, grants, now) {
		if err := e.execute(ctx, cmd); err != nil {
			result.SideEffectErrors = append(result.SideEffectErrors, &models.SideEffectError{Effect: cmd.Effect(), Target: cmd.Target(), Err: err})
			continue
		}
		if _, ok := cmd.(fast.SendMessage); ok {
			result.NotifiedCount++
		}
	}

	for _, err := range result.SideEffectErrors {
		log.WithError(err).Warn("Emergency side effect failed")
	}
	metrics.ObserveSideEffectFailures(len(result.SideEffectErrors))
	log.WithField("notified_caregivers", result.NotifiedCount).Warn("FAST emergency recorded")

	e.publish(ctx, e.emergencies, models.EventFASTEmergency, v.Email, map[string]interface{}{
		"fast_test_id":        strconv.FormatInt(result.Record.ID, 10),
		"patient_email":       v.Email,
		"notified_caregivers": result.NotifiedCount,
	})
	return result, nil
}

func (e *Engine) execute(ctx context.Context, cmd fast.Command) error {
	switch c := cmd.(type) {
	case fast.CreateAlert:
		_, err := e.store.Append(ctx, store.Alerts, c.Alert)
		return err
	case fast.SendMessage:
		_, err := e.store.Append(ctx, store.Messages, c.Message)
		if err == nil {
			metrics.ObserveMessage()
		}
		return err
	}
	return nil
}

func (e *Engine) FASTHistory(ctx context.Context, v models.Viewer) ([]models.FASTTestRecord, error) {
	if err := access.Require(v, access.ViewPatientDashboard); err != nil {
		return nil, err
	}
	own, err := store.ListAs[models.FASTTestRecord](ctx, e.store, store.FASTTests, store.Filter{PatientEmail: v.Email})
	if err != nil {
		return nil, err
	}
	return dashboard.NewestFirst(own), nil
}

// Alerts are visible only to the patient they concern.
func (e *Engine) Alerts(ctx context.Context, v models.Viewer) ([]models.Alert, error) {
	if err := access.Require(v, access.ViewPatientDashboard); err != nil {
		return nil, err
	}
	own, err := store.ListAs[models.Alert](ctx, e.store, store.Alerts, store.Filter{PatientEmail: v.Email})
	if err != nil {
		return nil, err
	}
	return dashboard.NewestFirst(own), nil
}

// RaiseHighRiskAlert stores a HIGH_RISK alert for an assessment once.
// It reports false when the alert already exists.
func (e *Engine) RaiseHighRiskAlert(ctx context.Context, patientEmail, assessmentID string, score int) (bool, error) {
	message := "High stroke risk assessment " + assessmentID + " (score " + strconv.Itoa(score) + "). Please consult a medical professional."

	existing, err := store.ListAs[models.Alert](ctx, e.store, store.Alerts, store.Filter{PatientEmail: patientEmail})
	if err != nil {
		return false, err
	}
	for _, a := range existing {
		if a.Type == models.AlertHighRisk && a.Message == message {
			return false, nil
		}
	}

	_, err = e.store.Append(ctx, store.Alerts, models.Alert{
		PatientEmail: patientEmail,
		Type:         models.AlertHighRisk,
		Severity:     models.SeverityCritical,
		Message:      message,
		Timestamp:    e.now(),
	})
	if err != nil {
		return false, err
	}
	metrics.ObserveHighRiskAlert()
	return true, nil
}
