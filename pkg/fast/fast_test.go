package fast

import (
	"testing"
	"time"

	"github.com/strokecare/platform/pkg/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	normal   = models.ObservationNormal
	abnormal = models.ObservationAbnormal
	unset    = models.ObservationUnset
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name  string
		obs   models.FASTResults
		state State
		score int
	}{
		{"face abnormal", models.FASTResults{Face: abnormal, Arms: normal, Speech: normal}, StateEmergency, 3},
		{"all normal", models.FASTResults{Face: normal, Arms: normal, Speech: normal}, StateClear, 0},
		{"arms unset", models.FASTResults{Face: normal, Arms: unset, Speech: normal}, StateIncomplete, -1},
		{"abnormal beats unset", models.FASTResults{Speech: abnormal}, StateEmergency, 3},
		{"nothing observed", models.FASTResults{}, StateIncomplete, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.obs)
			assert.Equal(t, tc.state, got.State)
			assert.Equal(t, tc.score, got.Score)
			assert.Equal(t, tc.state == StateEmergency, got.Emergency)
		})
	}
}

func TestValidateObservations(t *testing.T) {
	assert.NoError(t, ValidateObservations(models.FASTResults{Face: normal}))
	err := ValidateObservations(models.FASTResults{Face: "droopy"})
	assert.True(t, models.IsValidation(err))
}

func TestPlanClearHasNoEffects(t *testing.T) {
	out := Evaluate(models.FASTResults{Face: normal, Arms: normal, Speech: normal})
	assert.Empty(t, Plan("p@x.com", out, nil, time.Now()))
}

func TestPlanEmergencyNotifiesEachCaregiverOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	grants := []models.SharedRecordGrant{
		{PatientEmail: "p@x.com", RecipientEmail: "c1@x.com", RecipientRole: models.RoleCaregiver},
		{PatientEmail: "p@x.com", RecipientEmail: "c1@x.com", RecipientRole: models.RoleCaregiver},
		{PatientEmail: "p@x.com", RecipientEmail: "c2@x.com", RecipientRole: models.RoleCaregiver},
		{PatientEmail: "p@x.com", RecipientEmail: "d@x.com", RecipientRole: models.RoleDoctor},
		{PatientEmail: "other@x.com", RecipientEmail: "c3@x.com", RecipientRole: models.RoleCaregiver},
	}

	cmds := Plan("p@x.com", Evaluate(models.FASTResults{Arms: abnormal}), grants, now)
	require.Len(t, cmds, 3)

	alert, ok := cmds[0].(CreateAlert)
	require.True(t, ok)
	assert.Equal(t, models.AlertFASTEmergency, alert.Alert.Type)
	assert.Equal(t, models.SeverityHigh, alert.Alert.Severity)
	assert.Equal(t, now, alert.Alert.Timestamp)

	var recipients []string
	for _, c := range cmds[1:] {
		msg, ok := c.(SendMessage)
		require.True(t, ok)
		assert.Equal(t, "p@x.com", msg.Message.From)
		assert.Equal(t, CaregiverSubject, msg.Message.Subject)
		assert.Contains(t, msg.Message.Body, "p@x.com")
		assert.False(t, msg.Message.Read)
		recipients = append(recipients, msg.Target())
	}
	assert.Equal(t, []string{"c1@x.com", "c2@x.com"}, recipients)
}
