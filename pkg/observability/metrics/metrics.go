package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/strokecare/platform/pkg/common/models"
)

var (
	assessmentsLow      atomic.Int64
	assessmentsMedium   atomic.Int64
	assessmentsHigh     atomic.Int64
	assessmentsRejected atomic.Int64
	fastClear           atomic.Int64
	fastEmergency       atomic.Int64
	fastIncomplete      atomic.Int64
	sideEffectFailures  atomic.Int64
	sharesCreated       atomic.Int64
	messagesSent        atomic.Int64
	highRiskAlerts      atomic.Int64
)

func ObserveAssessment(level models.RiskLevel) {
	switch level {
	case models.RiskHigh:
		assessmentsHigh.Add(1)
	case models.RiskMedium:
		assessmentsMedium.Add(1)
	default:
		assessmentsLow.Add(1)
	}
}

func ObserveRejectedAssessment() { assessmentsRejected.Add(1) }

// ObserveFAST records one FAST evaluation by terminal state name.
func ObserveFAST(state string) {
	switch state {
	case "EMERGENCY":
		fastEmergency.Add(1)
	case "CLEAR":
		fastClear.Add(1)
	default:
		fastIncomplete.Add(1)
	}
}

func ObserveSideEffectFailures(n int) { sideEffectFailures.Add(int64(n)) }

func ObserveShare() { sharesCreated.Add(1) }

func ObserveMessage() { messagesSent.Add(1) }

func ObserveHighRiskAlert() { highRiskAlerts.Add(1) }

type sample struct {
	name, help, labels string
	value              int64
}

func snapshot() []sample {
	return []sample{
		{"strokecare_assessments_total", "Assessments scored since start.", `{risk_level="Low"}`, assessmentsLow.Load()},
		{"strokecare_assessments_total", "", `{risk_level="Medium"}`, assessmentsMedium.Load()},
		{"strokecare_assessments_total", "", `{risk_level="High"}`, assessmentsHigh.Load()},
		{"strokecare_assessments_rejected_total", "Assessments rejected by validation.", "", assessmentsRejected.Load()},
		{"strokecare_fast_tests_total", "FAST evaluations by outcome.", `{state="CLEAR"}`, fastClear.Load()},
		{"strokecare_fast_tests_total", "", `{state="EMERGENCY"}`, fastEmergency.Load()},
		{"strokecare_fast_tests_total", "", `{state="INCOMPLETE"}`, fastIncomplete.Load()},
		{"strokecare_side_effect_failures_total", "Alert or message writes that failed during emergency handling.", "", sideEffectFailures.Load()},
		{"strokecare_shares_total", "Sharing grants created.", "", sharesCreated.Load()},
		{"strokecare_messages_total", "Messages sent, including emergency notices.", "", messagesSent.Load()},
		{"strokecare_high_risk_alerts_total", "HIGH_RISK alerts raised by the notifier.", "", highRiskAlerts.Load()},
	}
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	for _, s := range snapshot() {
		if s.help != "" {
			fmt.Fprintf(w, "# HELP %s %s\n", s.name, s.help)
			fmt.Fprintf(w, "# TYPE %s counter\n", s.name)
		}
		fmt.Fprintf(w, "%s%s %d\n", s.name, s.labels, s.value)
	}
}
