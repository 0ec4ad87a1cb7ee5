package access

import (
	"fmt"

	"github.com/strokecare/platform/pkg/common/models"
)

type Action string

const (
	SubmitAssessment       Action = "submit_assessment"
	SubmitFAST             Action = "submit_fast"
	ShareRecord            Action = "share_record"
	DeleteAssessment       Action = "delete_assessment"
	ViewPatientDashboard   Action = "view_patient_dashboard"
	ViewCaregiverDashboard Action = "view_caregiver_dashboard"
	ViewDoctorDashboard    Action = "view_doctor_dashboard"
	ViewReport             Action = "view_report"
	SendMessage            Action = "send_message"
)

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
}

var allowedRoles = map[Action][]models.Role{
	SubmitAssessment:       {models.RolePatient},
	SubmitFAST:             {models.RolePatient},
	ShareRecord:            {models.RolePatient},
	DeleteAssessment:       {models.RolePatient},
	ViewPatientDashboard:   {models.RolePatient},
	ViewReport:             {models.RolePatient},
	ViewCaregiverDashboard: {models.RoleCaregiver},
	ViewDoctorDashboard:    {models.RoleDoctor},
	SendMessage:            {models.RolePatient, models.RoleCaregiver, models.RoleDoctor},
}

// Check decides whether viewer may perform action.
func Check(viewer models.Viewer, action Action) Decision {
	if viewer.Email == "" {
		return Decision{Reason: "no signed-in user"}
	}
	roles, ok := allowedRoles[action]
	if !ok {
		return Decision{Reason: fmt.Sprintf("unknown action %q", action)}
	}
	for _, r := range roles {
		if r == viewer.Role {
			return Decision{Allowed: true, Reason: fmt.Sprintf("%s may %s", viewer.Role, action)}
		}
	}
	return Decision{Reason: fmt.Sprintf("only %v may %s", roles, action)}
}

// Require turns a denial into an error: NotFoundError without a signed-in
// user, AuthorizationError otherwise.
func Require(viewer models.Viewer, action Action) error {
	if viewer.Email == "" {
		return models.NewNotFoundError("session", "")
	}
	d := Check(viewer, action)
	if d.Allowed {
		return nil
	}
	return &models.AuthorizationError{Role: viewer.Role, Action: string(action), Reason: d.Reason}
}
