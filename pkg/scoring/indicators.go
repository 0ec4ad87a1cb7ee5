package scoring

import (
	"fmt"

	"github.com/strokecare/platform/pkg/common/models"
)

// AbnormalIndicators lists the out-of-range findings of one form for patient reports.
func AbnormalIndicators(form models.FormData) []string {
	var out []string

	if form.Hypertension == 1 {
		out = append(out, "hypertension")
	}
	if form.HeartDisease == 1 {
		out = append(out, "heart disease")
	}

	if g := valueOf(form.AvgGlucoseLevel); g > 0 {
		switch {
		case g > 125:
			out = append(out, fmt.Sprintf("high glucose (%g mg/dL)", g))
		case g < 70:
			out = append(out, fmt.Sprintf("low glucose (%g mg/dL)", g))
		}
	}

	if b := valueOf(form.BMI); b > 0 {
		switch {
		case b > 30:
			out = append(out, fmt.Sprintf("obesity (BMI %g)", b))
		case b < 18.5:
			out = append(out, fmt.Sprintf("underweight (BMI %g)", b))
		}
	}

	if form.SmokingStatus == models.SmokingSmokes {
		out = append(out, "current smoker")
	}
	return out
}
