package dashboard

import (
	"math"
	"time"

	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/scoring"
)

type Trend struct {
	Direction  string   `json:"trend"`
	ChangeRate float64  `json:"changeRate"`
	First      *float64 `json:"firstValue,omitempty"`
	Last       *float64 `json:"lastValue,omitempty"`
	DataPoints int      `json:"dataPoints"`
}

const (
	TrendNoData       = "no_data"
	TrendInsufficient = "insufficient_data"
	TrendIncreasing   = "increasing"
	TrendDecreasing   = "decreasing"
	TrendStable       = "stable"
)

// AnalyzeTrend compares the first and last present values. A change of more
// than 10 percent either way is a trend.
func AnalyzeTrend(values []*float64) Trend {
	if len(values) == 0 {
		return Trend{Direction: TrendNoData}
	}
	var present []float64
	for _, v := range values {
		if v != nil {
			present = append(present, *v)
		}
	}
	if len(present) < 2 {
		return Trend{Direction: TrendInsufficient, DataPoints: len(present)}
	}

	first, last := present[0], present[len(present)-1]
	rate := 0.0
	if first != 0 {
		rate = (last - first) / first * 100
	}

	t := Trend{
		ChangeRate: math.Round(rate*100) / 100,
		First:      &first,
		Last:       &last,
		DataPoints: len(present),
	}
	switch {
	case rate > 10:
		t.Direction = TrendIncreasing
	case rate < -10:
		t.Direction = TrendDecreasing
	default:
		t.Direction = TrendStable
	}
	return t
}

type PatientReport struct {
	PatientEmail       string           `json:"patientEmail"`
	ReportDate         time.Time        `json:"reportDate"`
	CurrentRiskLevel   models.RiskLevel `json:"currentRiskLevel,omitempty"`
	TotalAssessments   int              `json:"totalAssessments"`
	GlucoseTrend       Trend            `json:"glucoseTrend"`
	BMITrend           Trend            `json:"bmiTrend"`
	AbnormalIndicators []string         `json:"abnormalIndicators"`
	Goals              []string         `json:"goals"`
}

var reportGoals = []string{
	"Regular health checks",
	"Keep a healthy lifestyle",
	"Manage risk factors",
}

// Report builds a personal report from assessments in creation order.
func Report(patientEmail string, assessments []models.HealthAssessment, now time.Time) PatientReport {
	report := PatientReport{
		PatientEmail:       patientEmail,
		ReportDate:         now,
		TotalAssessments:   len(assessments),
		AbnormalIndicators: []string{},
		Goals:              reportGoals,
	}

	glucose := make([]*float64, 0, len(assessments))
	bmi := make([]*float64, 0, len(assessments))
	for _, a := range assessments {
		glucose = append(glucose, a.FormData.AvgGlucoseLevel)
		bmi = append(bmi, a.FormData.BMI)
	}
	report.GlucoseTrend = AnalyzeTrend(glucose)
	report.BMITrend = AnalyzeTrend(bmi)

	if len(assessments) > 0 {
		latest := assessments[len(assessments)-1]
		report.CurrentRiskLevel = latest.RiskLevel
		if ind := scoring.AbnormalIndicators(latest.FormData); ind != nil {
			report.AbnormalIndicators = ind
		}
	}
	return report
}
