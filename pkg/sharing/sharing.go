package sharing

import (
	"strings"
	"time"

	"github.com/strokecare/platform/pkg/common/models"
)

// NewGrant copies assessment into a grant for one caregiver or doctor.
// The assessment must belong to patientEmail. The recipient email is stored
// trimmed so it matches the recipient's login.
func NewGrant(assessment models.HealthAssessment, patientEmail, recipientEmail string, recipientRole models.Role, now time.Time) (models.SharedRecordGrant, error) {
	if assessment.PatientEmail != patientEmail {
		return models.SharedRecordGrant{}, models.NewNotFoundError("assessment", "")
	}
	recipientEmail = strings.TrimSpace(recipientEmail)
	if recipientEmail == "" {
		return models.SharedRecordGrant{}, models.NewValidationError("recipient_email", "is required")
	}
	if recipientRole != models.RoleCaregiver && recipientRole != models.RoleDoctor {
		return models.SharedRecordGrant{}, models.NewValidationError("recipient_role", "must be caregiver or doctor")
	}

	return models.SharedRecordGrant{
		PatientEmail:   patientEmail,
		RecipientEmail: recipientEmail,
		RecipientRole:  recipientRole,
		AssessmentID:   assessment.ID,
		TotalScore:     assessment.TotalScore,
		RiskLevel:      assessment.RiskLevel,
		Stage:          assessment.Stage,
		Color:          assessment.Color,
		Timestamp:      assessment.Timestamp,
		FormData:       assessment.FormData,
		Message:        assessment.Message,
		SharedAt:       now,
	}, nil
}

// VisibleRecords keeps the grants addressed to exactly this viewer. Role and
// email must both match; there is no role hierarchy.
func VisibleRecords(grants []models.SharedRecordGrant, viewer models.Viewer) []models.SharedRecordGrant {
	out := make([]models.SharedRecordGrant, 0)
	for _, g := range grants {
		if g.RecipientRole == viewer.Role && g.RecipientEmail == viewer.Email {
			out = append(out, g)
		}
	}
	return out
}

// LatestPerPatient reduces grants to the newest one per patient. On equal
// timestamps the grant seen first is kept.
func LatestPerPatient(grants []models.SharedRecordGrant) map[string]models.SharedRecordGrant {
	latest := make(map[string]models.SharedRecordGrant)
	for _, g := range grants {
		cur, ok := latest[g.PatientEmail]
		if !ok || g.Timestamp.After(cur.Timestamp) {
			latest[g.PatientEmail] = g
		}
	}
	return latest
}

// LatestSlice is LatestPerPatient ordered by first appearance of each patient.
func LatestSlice(grants []models.SharedRecordGrant) []models.SharedRecordGrant {
	latest := LatestPerPatient(grants)
	out := make([]models.SharedRecordGrant, 0, len(latest))
	seen := make(map[string]struct{}, len(latest))
	for _, g := range grants {
		if _, ok := seen[g.PatientEmail]; ok {
			continue
		}
		seen[g.PatientEmail] = struct{}{}
		out = append(out, latest[g.PatientEmail])
	}
	return out
}

// SharedBy returns the grants a patient has issued.
func SharedBy(grants []models.SharedRecordGrant, patientEmail string) []models.SharedRecordGrant {
	out := make([]models.SharedRecordGrant, 0)
	for _, g := range grants {
		if g.PatientEmail == patientEmail {
			out = append(out, g)
		}
	}
	return out
}
