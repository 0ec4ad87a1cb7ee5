package engine

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/strokecare/platform/pkg/access"
	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/dashboard"
	"github.com/strokecare/platform/pkg/messaging"
	"github.com/strokecare/platform/pkg/observability/metrics"
	"github.com/strokecare/platform/pkg/sharing"
	"github.com/strokecare/platform/pkg/store"
)

// Share grants recipient visibility of one of the viewer's assessments.
func (e *Engine) Share(ctx context.Context, v models.Viewer, assessmentID int64, recipientEmail string, recipientRole models.Role) (models.SharedRecordGrant, error) {
	if err := access.Require(v, access.ShareRecord); err != nil {
		return models.SharedRecordGrant{}, err
	}
	own, err := store.ListAs[models.HealthAssessment](ctx, e.store, store.Assessments, store.Filter{PatientEmail: v.Email})
	if err != nil {
		return models.SharedRecordGrant{}, err
	}

	var source *models.HealthAssessment
	for i := range own {
		if own[i].ID == assessmentID {
			source = &own[i]
			break
		}
	}
	if source == nil {
		return models.SharedRecordGrant{}, models.NewNotFoundError("assessment", strconv.FormatInt(assessmentID, 10))
	}

	grant, err := sharing.NewGrant(*source, v.Email, recipientEmail, recipientRole, e.now())
	if err != nil {
		return models.SharedRecordGrant{}, err
	}
	rec, err := e.store.Append(ctx, store.SharedRecords, grant)
	if err != nil {
		return models.SharedRecordGrant{}, err
	}

	metrics.ObserveShare()
	logger.WithViewer(v.Email, string(v.Role)).WithFields(logrus.Fields{
		"assessment_id":  assessmentID,
		"recipient_role": recipientRole,
	}).Info("Assessment shared")
	return rec.(models.SharedRecordGrant), nil
}

// VisibleRecords lists the grants addressed to the viewer.
func (e *Engine) VisibleRecords(ctx context.Context, v models.Viewer) ([]models.SharedRecordGrant, error) {
	if v.Email == "" {
		return nil, models.NewNotFoundError("session", "")
	}
	grants, err := store.ListAs[models.SharedRecordGrant](ctx, e.store, store.SharedRecords, store.Filter{
		RecipientEmail: v.Email,
		RecipientRole:  v.Role,
	})
	if err != nil {
		return nil, err
	}
	return sharing.VisibleRecords(grants, v), nil
}

// OutgoingShares lists the grants the viewer has issued as a patient.
func (e *Engine) OutgoingShares(ctx context.Context, v models.Viewer) ([]models.SharedRecordGrant, error) {
	if err := access.Require(v, access.ShareRecord); err != nil {
		return nil, err
	}
	grants, err := store.ListAs[models.SharedRecordGrant](ctx, e.store, store.SharedRecords, store.Filter{PatientEmail: v.Email})
	if err != nil {
		return nil, err
	}
	return sharing.SharedBy(grants, v.Email), nil
}

func (e *Engine) SendMessage(ctx context.Context, v models.Viewer, to, subject, body string) (models.Message, error) {
	if err := access.Require(v, access.SendMessage); err != nil {
		return models.Message{}, err
	}
	msg, err := messaging.Compose(v.Email, to, subject, body, messaging.KindFor(v.Role), e.now())
	if err != nil {
		return models.Message{}, err
	}
	rec, err := e.store.Append(ctx, store.Messages, msg)
	if err != nil {
		return models.Message{}, err
	}
	metrics.ObserveMessage()
	return rec.(models.Message), nil
}

func (e *Engine) Inbox(ctx context.Context, v models.Viewer) ([]models.Message, error) {
	if v.Email == "" {
		return nil, models.NewNotFoundError("session", "")
	}
	msgs, err := store.ListAs[models.Message](ctx, e.store, store.Messages, store.Filter{Participant: v.Email})
	if err != nil {
		return nil, err
	}
	return messaging.Inbox(msgs, v.Email), nil
}

// MarkRead marks message id read when the viewer is its recipient and returns
// the message as stored.
func (e *Engine) MarkRead(ctx context.Context, v models.Viewer, id int64) (models.Message, error) {
	if v.Email == "" {
		return models.Message{}, models.NewNotFoundError("session", "")
	}
	all, err := store.ListAs[models.Message](ctx, e.store, store.Messages, store.Filter{})
	if err != nil {
		return models.Message{}, err
	}
	updated, changed, err := messaging.MarkRead(all, id, v.Email)
	if err != nil {
		return models.Message{}, err
	}
	if changed {
		if err := e.store.Replace(ctx, store.Messages, toRecords(updated)); err != nil {
			return models.Message{}, err
		}
	}
	for _, m := range updated {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Message{}, models.NewNotFoundError("message", strconv.FormatInt(id, 10))
}

func (e *Engine) UnreadCount(ctx context.Context, v models.Viewer) (int, error) {
	if v.Email == "" {
		return 0, models.NewNotFoundError("session", "")
	}
	msgs, err := store.ListAs[models.Message](ctx, e.store, store.Messages, store.Filter{Participant: v.Email})
	if err != nil {
		return 0, err
	}
	return messaging.UnreadCount(msgs, v.Email), nil
}

func (e *Engine) PatientDashboard(ctx context.Context, v models.Viewer) (dashboard.PatientView, error) {
	if err := access.Require(v, access.ViewPatientDashboard); err != nil {
		return dashboard.PatientView{}, err
	}
	filter := store.Filter{PatientEmail: v.Email}

	assessments, err := store.ListAs[models.HealthAssessment](ctx, e.store, store.Assessments, filter)
	if err != nil {
		return dashboard.PatientView{}, err
	}
	alerts, err := store.ListAs[models.Alert](ctx, e.store, store.Alerts, filter)
	if err != nil {
		return dashboard.PatientView{}, err
	}
	tests, err := store.ListAs[models.FASTTestRecord](ctx, e.store, store.FASTTests, filter)
	if err != nil {
		return dashboard.PatientView{}, err
	}
	grants, err := store.ListAs[models.SharedRecordGrant](ctx, e.store, store.SharedRecords, filter)
	if err != nil {
		return dashboard.PatientView{}, err
	}
	unread, err := e.UnreadCount(ctx, v)
	if err != nil {
		return dashboard.PatientView{}, err
	}

	return dashboard.Patient(dashboard.PatientInput{
		Assessments:    assessments,
		Alerts:         alerts,
		FASTTests:      tests,
		Grants:         sharing.SharedBy(grants, v.Email),
		UnreadMessages: unread,
		Now:            e.now(),
		RetestInterval: e.retestInterval,
	}), nil
}

func (e *Engine) CaregiverDashboard(ctx context.Context, v models.Viewer) (dashboard.CaregiverView, error) {
	if err := access.Require(v, access.ViewCaregiverDashboard); err != nil {
		return dashboard.CaregiverView{}, err
	}
	grants, err := e.VisibleRecords(ctx, v)
	if err != nil {
		return dashboard.CaregiverView{}, err
	}
	inbox, err := e.Inbox(ctx, v)
	if err != nil {
		return dashboard.CaregiverView{}, err
	}
	return dashboard.Caregiver(grants, inbox), nil
}

func (e *Engine) DoctorDashboard(ctx context.Context, v models.Viewer) (dashboard.DoctorView, error) {
	if err := access.Require(v, access.ViewDoctorDashboard); err != nil {
		return dashboard.DoctorView{}, err
	}
	grants, err := e.VisibleRecords(ctx, v)
	if err != nil {
		return dashboard.DoctorView{}, err
	}
	return dashboard.Doctor(grants, e.doctorTopN), nil
}

// Dashboard dispatches to the dashboard of the viewer's role.
func (e *Engine) Dashboard(ctx context.Context, v models.Viewer) (interface{}, error) {
	switch v.Role {
	case models.RolePatient:
		return e.PatientDashboard(ctx, v)
	case models.RoleCaregiver:
		return e.CaregiverDashboard(ctx, v)
	case models.RoleDoctor:
		return e.DoctorDashboard(ctx, v)
	}
	return nil, &models.AuthorizationError{Role: v.Role, Action: "view_dashboard", Reason: "unknown role"}
}

func (e *Engine) PatientReport(ctx context.Context, v models.Viewer) (dashboard.PatientReport, error) {
	if err := access.Require(v, access.ViewReport); err != nil {
		return dashboard.PatientReport{}, err
	}
	assessments, err := store.ListAs[models.HealthAssessment](ctx, e.store, store.Assessments, store.Filter{PatientEmail: v.Email})
	if err != nil {
		return dashboard.PatientReport{}, err
	}
	return dashboard.Report(v.Email, assessments, e.now()), nil
}
