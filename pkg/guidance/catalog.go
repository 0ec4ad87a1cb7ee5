package guidance

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/strokecare/platform/pkg/common/models"
	"gopkg.in/yaml.v3"
)

type TierAdvice struct {
	Message         string   `yaml:"message" json:"message"`
	Recommendations []string `yaml:"recommendations" json:"recommendations"`
}

// FactorAdvice is appended to the tier advice when the matching risk factor is present.
type FactorAdvice struct {
	Hypertension string `yaml:"hypertension" json:"hypertension"`
	HighGlucose  string `yaml:"high_glucose" json:"high_glucose"`
	Obesity      string `yaml:"obesity" json:"obesity"`
	Smoker       string `yaml:"smoker" json:"smoker"`
}

type Meal struct {
	Time string `yaml:"time" json:"time"`
	Menu string `yaml:"menu" json:"menu"`
	Note string `yaml:"note" json:"note"`
}

type Catalog struct {
	Tiers   map[models.RiskLevel]TierAdvice `yaml:"tiers" json:"tiers"`
	Factors FactorAdvice                    `yaml:"factors" json:"factors"`
	Meals   map[models.RiskLevel][]Meal     `yaml:"meals" json:"meals"`
}

// Load reads a YAML catalog. An empty path yields the built-in catalog.
// Tiers missing from the file fall back to the built-in advice.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Default(), err
	}

	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, fmt.Errorf("parse guidance catalog: %w", err)
	}
	if len(cat.Tiers) == 0 {
		return Catalog{}, fmt.Errorf("guidance catalog %s has no tiers", path)
	}

	def := Default()
	for _, level := range []models.RiskLevel{models.RiskLow, models.RiskMedium, models.RiskHigh} {
		if _, ok := cat.Tiers[level]; !ok {
			cat.Tiers[level] = def.Tiers[level]
		}
		if cat.Meals == nil {
			cat.Meals = map[models.RiskLevel][]Meal{}
		}
		if _, ok := cat.Meals[level]; !ok {
			cat.Meals[level] = def.Meals[level]
		}
	}
	if cat.Factors == (FactorAdvice{}) {
		cat.Factors = def.Factors
	}
	return cat, nil
}

func (c Catalog) Message(level models.RiskLevel) string {
	return c.Tiers[level].Message
}

// Recommendations returns the tier advice followed by advice for each present
// risk factor, in a fixed order.
func (c Catalog) Recommendations(level models.RiskLevel, form models.FormData) []string {
	tier := c.Tiers[level].Recommendations
	out := make([]string, 0, len(tier)+4)
	out = append(out, tier...)

	if form.Hypertension == 1 && c.Factors.Hypertension != "" {
		out = append(out, c.Factors.Hypertension)
	}
	if form.AvgGlucoseLevel != nil && *form.AvgGlucoseLevel > 125 && c.Factors.HighGlucose != "" {
		out = append(out, c.Factors.HighGlucose)
	}
	if form.BMI != nil && *form.BMI > 30 && c.Factors.Obesity != "" {
		out = append(out, c.Factors.Obesity)
	}
	if form.SmokingStatus == models.SmokingSmokes && c.Factors.Smoker != "" {
		out = append(out, c.Factors.Smoker)
	}
	return out
}

func Default() Catalog {
	return Catalog{
		Tiers: map[models.RiskLevel]TierAdvice{
			models.RiskHigh: {
				Message: "High stroke risk. Please consult a medical professional.",
				Recommendations: []string{
					"See a medical professional as soon as possible",
					"Monitor blood pressure and blood glucose regularly",
					"Take prescribed medication exactly as directed",
				},
			},
			models.RiskMedium: {
				Message: "Moderate stroke risk. Ongoing health management is needed.",
				Recommendations: []string{
					"Regular health management is needed",
					"Consult a medical professional every 3 months",
					"Do moderate exercise 3-4 times a week",
				},
			},
			models.RiskLow: {
				Message: "Low stroke risk. Keep up your healthy habits.",
				Recommendations: []string{
					"Maintain your current health",
					"Reassess every 3-6 months",
					"Keep exercising regularly",
				},
			},
		},
		Factors: FactorAdvice{
			Hypertension: "Reduce salt intake",
			HighGlucose:  "Limit sugar and manage blood glucose",
			Obesity:      "Bring BMI into the normal range through weight loss",
			Smoker:       "Quit smoking",
		},
		Meals: map[models.RiskLevel][]Meal{
			models.RiskHigh: {
				{Time: "breakfast", Menu: "Whole wheat bread, egg whites, salad, low-fat milk", Note: "Protein and fiber first"},
				{Time: "lunch", Menu: "Brown rice, grilled salmon or mackerel, stir-fried vegetables, soybean soup", Note: "Plenty of omega-3 and vegetables"},
				{Time: "dinner", Menu: "Oat porridge, tofu, seasoned greens, a little fruit", Note: "Low calorie, low salt"},
			},
			models.RiskMedium: {
				{Time: "breakfast", Menu: "Brown rice, egg, greens, kimchi", Note: "Balanced home meal"},
				{Time: "lunch", Menu: "Mixed grain rice, chicken breast, vegetable salad, fruit", Note: "Protein and vitamins"},
				{Time: "dinner", Menu: "Whole wheat pasta, tomato sauce, vegetables", Note: "Moderate portions"},
			},
			models.RiskLow: {
				{Time: "breakfast", Menu: "Whole grain cereal, milk, fruit", Note: "Keep healthy habits"},
				{Time: "lunch", Menu: "Colorful vegetables and protein", Note: "Balanced meal"},
				{Time: "dinner", Menu: "Light meal, avoid overeating", Note: "Keep dinner light"},
			},
		},
	}
}
