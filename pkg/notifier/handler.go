package notifier

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/strokecare/platform/pkg/common/logger"
	"github.com/strokecare/platform/pkg/common/models"
)

// AlertRaiser is satisfied by engine.Engine.
type AlertRaiser interface {
	RaiseHighRiskAlert(ctx context.Context, patientEmail, assessmentID string, score int) (bool, error)
}

type Handler struct {
	alerts        AlertRaiser
	highRiskAlert bool
}

func NewHandler(alerts AlertRaiser, highRiskAlert bool) *Handler {
	return &Handler{alerts: alerts, highRiskAlert: highRiskAlert}
}

// Handle reacts to assessment and emergency events. Returning an error leaves
// the message uncommitted.
func (h *Handler) Handle(ctx context.Context, event models.Event) error {
	switch event.Type {
	case models.EventAssessmentCreated:
		return h.handleAssessment(ctx, event)
	case models.EventFASTEmergency:
		logger.Log.WithFields(logrus.Fields{
			"event_id":            event.ID,
			"patient_email":       event.Data["patient_email"],
			"notified_caregivers": event.Data["notified_caregivers"],
		}).Warn("FAST emergency reported")
		return nil
	default:
		logger.Log.WithField("event_type", event.Type).Debug("Ignoring event")
		return nil
	}
}

func (h *Handler) handleAssessment(ctx context.Context, event models.Event) error {
	if !h.highRiskAlert {
		return nil
	}
	level, _ := event.Data["risk_level"].(string)
	if models.RiskLevel(level) != models.RiskHigh {
		return nil
	}

	email, _ := event.Data["patient_email"].(string)
	id, _ := event.Data["assessment_id"].(string)
	if email == "" || id == "" {
		return fmt.Errorf("event %s missing patient_email or assessment_id", event.ID)
	}
	score, _ := event.Data["total_score"].(float64)

	created, err := h.alerts.RaiseHighRiskAlert(ctx, email, id, int(score))
	if err != nil {
		return fmt.Errorf("raise high risk alert: %w", err)
	}
	logger.Log.WithFields(logrus.Fields{
		"event_id":      event.ID,
		"assessment_id": id,
		"created":       created,
	}).Info("High risk assessment processed")
	return nil
}
