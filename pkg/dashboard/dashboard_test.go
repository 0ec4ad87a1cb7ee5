package dashboard

import (
	"testing"
	"time"

	"github.com/strokecare/platform/pkg/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func fp(v float64) *float64 { return &v }

func assessment(id int64, score int, level models.RiskLevel, at time.Time) models.HealthAssessment {
	return models.HealthAssessment{ID: id, PatientEmail: "p@x.com", TotalScore: score, RiskLevel: level, Timestamp: at}
}

func shared(id int64, patient string, level models.RiskLevel, at time.Time) models.SharedRecordGrant {
	return models.SharedRecordGrant{
		ID: id, PatientEmail: patient, RecipientEmail: "d@x.com", RecipientRole: models.RoleDoctor,
		RiskLevel: level, Timestamp: at,
	}
}

func TestAverageScore(t *testing.T) {
	assert.Equal(t, 0.0, AverageScore([]models.HealthAssessment{}, assessmentScore))

	items := []models.HealthAssessment{
		assessment(1, 3, models.RiskLow, t0),
		assessment(2, 4, models.RiskLow, t0),
		assessment(3, 4, models.RiskLow, t0),
	}
	assert.Equal(t, 3.7, AverageScore(items, assessmentScore))
}

func TestCountByTier(t *testing.T) {
	items := []models.HealthAssessment{
		assessment(1, 3, models.RiskLow, t0),
		assessment(2, 9, models.RiskHigh, t0),
		assessment(3, 10, models.RiskHigh, t0),
		assessment(4, 6, models.RiskMedium, t0),
	}
	assert.Equal(t, TierCounts{Total: 4, High: 2, Medium: 1, Low: 1}, CountByTier(items, assessmentLevel))
}

func TestSortByPriorityIsStable(t *testing.T) {
	in := []models.SharedRecordGrant{
		shared(1, "a", models.RiskLow, t0),
		shared(2, "b", models.RiskHigh, t0),
		shared(3, "c", models.RiskMedium, t0),
		shared(4, "d", models.RiskHigh, t0),
	}
	out := SortByPriority(in)
	ids := []int64{}
	for _, g := range out {
		ids = append(ids, g.ID)
	}
	assert.Equal(t, []int64{2, 4, 3, 1}, ids)
	assert.Equal(t, int64(1), in[0].ID, "input is not reordered")
}

func TestDoctorDashboard(t *testing.T) {
	var grants []models.SharedRecordGrant
	for i := 0; i < 12; i++ {
		level := models.RiskLow
		if i%3 == 0 {
			level = models.RiskHigh
		}
		grants = append(grants, shared(int64(i+1), string(rune('a'+i))+"@x.com", level, t0))
	}
	// an older record for the first patient still counts toward stats
	grants = append(grants, shared(99, "a@x.com", models.RiskMedium, t0.Add(-time.Hour)))

	view := Doctor(grants, 10)
	assert.Equal(t, 13, view.Stats.Total)
	assert.Equal(t, 1, view.Stats.Medium)
	require.Len(t, view.All, 12)
	require.Len(t, view.Top, 10)
	for _, g := range view.Top[:4] {
		assert.Equal(t, models.RiskHigh, g.RiskLevel)
	}
	assert.Equal(t, models.RiskHigh, view.All[0].RiskLevel)
	assert.Equal(t, "a@x.com", view.All[0].PatientEmail)
}

func TestCaregiverDashboard(t *testing.T) {
	grants := []models.SharedRecordGrant{
		shared(1, "a@x.com", models.RiskLow, t0),
		shared(2, "a@x.com", models.RiskHigh, t0.Add(time.Hour)),
		shared(3, "b@x.com", models.RiskMedium, t0),
	}
	inbox := make([]models.Message, 7)
	for i := range inbox {
		inbox[i] = models.Message{ID: int64(7 - i)}
	}

	view := Caregiver(grants, inbox)
	require.Len(t, view.Patients, 2)
	assert.Equal(t, 3, view.SharedRecords)
	assert.Equal(t, models.RiskHigh, view.Patients[0].RiskLevel)
	assert.Equal(t, TierCounts{Total: 2, High: 1, Medium: 1}, view.Stats)
	require.Len(t, view.RecentMessages, 5)
	assert.Equal(t, int64(7), view.RecentMessages[0].ID)
}

func TestPatientDashboard(t *testing.T) {
	var assessments []models.HealthAssessment
	for i := 0; i < 5; i++ {
		assessments = append(assessments, assessment(int64(i+1), i*3, models.RiskLow, t0.Add(time.Duration(i)*24*time.Hour)))
	}
	assessments[4].RiskLevel = models.RiskHigh

	alerts := make([]models.Alert, 6)
	for i := range alerts {
		alerts[i] = models.Alert{ID: int64(i + 1)}
	}

	now := t0.Add(10 * 24 * time.Hour)
	view := Patient(PatientInput{
		Assessments:    assessments,
		Alerts:         alerts,
		Grants:         []models.SharedRecordGrant{{}, {}},
		UnreadMessages: 2,
		Now:            now,
		RetestInterval: 90 * 24 * time.Hour,
	})

	require.Len(t, view.History, 5)
	assert.Equal(t, int64(5), view.History[0].ID)
	require.Len(t, view.RecentResults, 3)
	require.Len(t, view.RecentAlerts, 5)
	assert.Equal(t, int64(6), view.RecentAlerts[0].ID)
	assert.Equal(t, models.RiskHigh, view.LatestLevel)
	assert.Equal(t, 6.0, view.AverageScore)
	assert.False(t, view.RetestDue)
	assert.Equal(t, 2, view.SharedCount)
	assert.Equal(t, 2, view.UnreadMessages)
}

func TestRetestDue(t *testing.T) {
	interval := 90 * 24 * time.Hour
	assert.True(t, RetestDue(nil, t0, interval))

	items := []models.HealthAssessment{assessment(1, 0, models.RiskLow, t0)}
	assert.False(t, RetestDue(items, t0.Add(interval-time.Second), interval))
	assert.True(t, RetestDue(items, t0.Add(interval), interval))
}

func TestAnalyzeTrend(t *testing.T) {
	assert.Equal(t, TrendNoData, AnalyzeTrend(nil).Direction)
	assert.Equal(t, TrendInsufficient, AnalyzeTrend([]*float64{fp(100), nil}).Direction)

	up := AnalyzeTrend([]*float64{fp(100), fp(105), fp(120)})
	assert.Equal(t, TrendIncreasing, up.Direction)
	assert.Equal(t, 20.0, up.ChangeRate)
	assert.Equal(t, 3, up.DataPoints)

	assert.Equal(t, TrendDecreasing, AnalyzeTrend([]*float64{fp(30), fp(26)}).Direction)
	assert.Equal(t, TrendStable, AnalyzeTrend([]*float64{fp(100), fp(110)}).Direction)
}

func TestReport(t *testing.T) {
	first := assessment(1, 5, models.RiskMedium, t0)
	first.FormData = models.FormData{AvgGlucoseLevel: fp(100), BMI: fp(28)}
	last := assessment(2, 9, models.RiskHigh, t0.Add(time.Hour))
	last.FormData = models.FormData{AvgGlucoseLevel: fp(140), BMI: fp(28), Hypertension: 1}

	report := Report("p@x.com", []models.HealthAssessment{first, last}, t0)
	assert.Equal(t, models.RiskHigh, report.CurrentRiskLevel)
	assert.Equal(t, 2, report.TotalAssessments)
	assert.Equal(t, TrendIncreasing, report.GlucoseTrend.Direction)
	assert.Equal(t, TrendStable, report.BMITrend.Direction)
	assert.Equal(t, []string{"hypertension", "high glucose (140 mg/dL)"}, report.AbnormalIndicators)

	empty := Report("p@x.com", nil, t0)
	assert.Empty(t, empty.CurrentRiskLevel)
	assert.Empty(t, empty.AbnormalIndicators)
}
