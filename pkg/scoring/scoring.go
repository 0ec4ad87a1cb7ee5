package scoring

import (
	"math"

	"github.com/strokecare/platform/pkg/common/models"
	"github.com/strokecare/platform/pkg/guidance"
)

const (
	LowMax    = 4
	MediumMax = 8
)

type Classification struct {
	Level models.RiskLevel `json:"riskLevel"`
	Stage string           `json:"stage"`
	Color string           `json:"color"`
}

type Result struct {
	Score int `json:"totalScore"`
	Classification
	Message         string   `json:"message"`
	Recommendations []string `json:"recommendations"`
}

// Validate checks the numeric fields the score depends on.
func Validate(form models.FormData) error {
	required := []struct {
		name  string
		value *float64
	}{
		{"age", form.Age},
		{"avg_glucose_level", form.AvgGlucoseLevel},
		{"bmi", form.BMI},
	}
	for _, f := range required {
		if f.value == nil {
			return models.NewValidationError(f.name, "is required")
		}
		if math.IsNaN(*f.value) || math.IsInf(*f.value, 0) {
			return models.NewValidationError(f.name, "must be a number")
		}
		if *f.value < 0 {
			return models.NewValidationError(f.name, "must not be negative")
		}
	}
	if form.Hypertension != 0 && form.Hypertension != 1 {
		return models.NewValidationError("hypertension", "must be 0 or 1")
	}
	if form.HeartDisease != 0 && form.HeartDisease != 1 {
		return models.NewValidationError("heart_disease", "must be 0 or 1")
	}
	return nil
}

// Score sums the additive risk table. form must have passed Validate.
func Score(form models.FormData) int {
	score := 0

	age := valueOf(form.Age)
	switch {
	case age >= 75:
		score += 4
	case age >= 60:
		score += 3
	case age >= 45:
		score += 2
	}

	glucose := valueOf(form.AvgGlucoseLevel)
	switch {
	case glucose >= 150:
		score += 3
	case glucose >= 125:
		score += 1
	}

	// bmi >= 35 scores lower than the 30-35 band.
	bmi := valueOf(form.BMI)
	switch {
	case bmi >= 35:
		score += 1
	case bmi >= 30:
		score += 2
	case bmi >= 25:
		score += 2
	}

	if form.Hypertension == 1 {
		score += 3
	}
	if form.HeartDisease == 1 {
		score += 4
	}

	switch form.SmokingStatus {
	case models.SmokingSmokes:
		score += 1
	case models.SmokingFormerly:
		score += 2
	}

	return score
}

func LevelFor(score int) models.RiskLevel {
	switch {
	case score <= LowMax:
		return models.RiskLow
	case score <= MediumMax:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

func Classify(score int) Classification {
	level := LevelFor(score)
	return Classification{Level: level, Stage: StageFor(level), Color: ColorFor(level)}
}

func StageFor(level models.RiskLevel) string {
	switch level {
	case models.RiskHigh:
		return "3단계"
	case models.RiskMedium:
		return "2단계"
	default:
		return "1단계"
	}
}

func ColorFor(level models.RiskLevel) string {
	switch level {
	case models.RiskHigh:
		return "high"
	case models.RiskMedium:
		return "medium"
	default:
		return "low"
	}
}

// Evaluate validates, scores and classifies one form, attaching advice from cat.
func Evaluate(form models.FormData, cat guidance.Catalog) (Result, error) {
	if err := Validate(form); err != nil {
		return Result{}, err
	}
	return FromScore(Score(form), form, cat), nil
}

// FromScore builds a result around a score computed elsewhere, such as the
// remote assessment service.
func FromScore(score int, form models.FormData, cat guidance.Catalog) Result {
	class := Classify(score)
	return Result{
		Score:           score,
		Classification:  class,
		Message:         cat.Message(class.Level),
		Recommendations: cat.Recommendations(class.Level, form),
	}
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
