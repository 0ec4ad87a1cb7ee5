package fast

import (
	"fmt"
	"time"

	"github.com/strokecare/platform/pkg/common/models"
)

type State string

const (
	StateEmergency  State = "EMERGENCY"
	StateClear      State = "CLEAR"
	StateIncomplete State = "INCOMPLETE"
)

const (
	EmergencyScore  = 3
	ClearScore      = 0
	IncompleteScore = -1
)

const (
	AlertMessage     = "Stroke suspected - call 119 immediately"
	CaregiverSubject = "Urgent: abnormal FAST test"
	caregiverBody    = "A FAST test for patient %s found suspected stroke symptoms. Please check on them immediately."
)

type Outcome struct {
	State     State `json:"state"`
	Score     int   `json:"score"`
	Emergency bool  `json:"emergency"`
}

// Evaluate maps three observations to a terminal state. Any abnormal
// observation is an emergency even when the others are unset.
func Evaluate(obs models.FASTResults) Outcome {
	checks := []models.Observation{obs.Face, obs.Arms, obs.Speech}

	allNormal := true
	for _, o := range checks {
		if o == models.ObservationAbnormal {
			return Outcome{State: StateEmergency, Score: EmergencyScore, Emergency: true}
		}
		if o != models.ObservationNormal {
			allNormal = false
		}
	}
	if allNormal {
		return Outcome{State: StateClear, Score: ClearScore}
	}
	return Outcome{State: StateIncomplete, Score: IncompleteScore}
}

// ValidateObservations rejects values other than normal, abnormal or unset.
func ValidateObservations(obs models.FASTResults) error {
	fields := map[string]models.Observation{"face": obs.Face, "arms": obs.Arms, "speech": obs.Speech}
	for name, o := range fields {
		switch o {
		case models.ObservationUnset, models.ObservationNormal, models.ObservationAbnormal:
		default:
			return models.NewValidationError(name, fmt.Sprintf("unknown observation %q", o))
		}
	}
	return nil
}

// Command is a side effect the orchestrator runs after the FAST record is stored.
type Command interface {
	Effect() string
	Target() string
}

type CreateAlert struct {
	Alert models.Alert
}

func (c CreateAlert) Effect() string { return "create_alert" }
func (c CreateAlert) Target() string { return c.Alert.PatientEmail }

type SendMessage struct {
	Message models.Message
}

func (c SendMessage) Effect() string { return "send_message" }
func (c SendMessage) Target() string { return c.Message.To }

// Plan lists the side effects of an outcome: nothing unless it is an emergency,
// then one alert plus one message per distinct caregiver holding a grant from
// the patient.
func Plan(patientEmail string, outcome Outcome, grants []models.SharedRecordGrant, now time.Time) []Command {
	if !outcome.Emergency {
		return nil
	}

	cmds := []Command{CreateAlert{Alert: models.Alert{
		PatientEmail: patientEmail,
		Type:         models.AlertFASTEmergency,
		Severity:     models.SeverityHigh,
		Message:      AlertMessage,
		Timestamp:    now,
	}}}

	seen := make(map[string]struct{})
	for _, g := range grants {
		if g.PatientEmail != patientEmail || g.RecipientRole != models.RoleCaregiver {
			continue
		}
		if _, dup := seen[g.RecipientEmail]; dup {
			continue
		}
		seen[g.RecipientEmail] = struct{}{}

		cmds = append(cmds, SendMessage{Message: models.Message{
			From:      patientEmail,
			To:        g.RecipientEmail,
			Subject:   CaregiverSubject,
			Body:      fmt.Sprintf(caregiverBody, patientEmail),
			Category:  models.MessageEmergency,
			Timestamp: now,
		}})
	}
	return cmds
}
