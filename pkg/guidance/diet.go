package guidance

import "github.com/strokecare/platform/pkg/common/models"

type DietPlan struct {
	RiskLevel models.RiskLevel `json:"riskLevel"`
	Avoid     []string         `json:"avoid"`
	Encourage []string         `json:"encourage"`
	Portions  string           `json:"portions,omitempty"`
	Meals     []Meal           `json:"meals"`
}

// DietPlan derives dietary advice from the risk factors of one assessment.
func (c Catalog) DietPlan(level models.RiskLevel, form models.FormData) DietPlan {
	plan := DietPlan{RiskLevel: level}

	var glucose, bmi float64
	if form.AvgGlucoseLevel != nil {
		glucose = *form.AvgGlucoseLevel
	}
	if form.BMI != nil {
		bmi = *form.BMI
	}

	switch {
	case glucose >= 150:
		plan.Avoid = append(plan.Avoid,
			"Sugary foods (candy, cake, soda)",
			"Refined carbohydrates (white rice, white bread)")
		plan.Encourage = append(plan.Encourage,
			"Whole grains (brown rice, oats, whole wheat bread)",
			"Low glycemic foods (vegetables, legumes)")
	case glucose >= 125:
		plan.Avoid = append(plan.Avoid, "Excess sugar")
		plan.Encourage = append(plan.Encourage, "Fiber-rich foods")
	}

	switch {
	case bmi >= 30:
		plan.Avoid = append(plan.Avoid, "High-calorie fast food", "Fried food")
		plan.Encourage = append(plan.Encourage,
			"Vegetable-centered meals",
			"Moderate calories (1500-1800 kcal a day)")
		plan.Portions = "Half the plate vegetables, a quarter protein, a quarter whole grains"
	case bmi >= 25:
		plan.Encourage = append(plan.Encourage, "Balanced meals")
		plan.Portions = "Moderate portions, avoid overeating"
	}

	if form.Hypertension == 1 {
		plan.Avoid = append(plan.Avoid,
			"Excess sodium (salty food, processed food, instant noodles)",
			"Excess caffeine")
		plan.Encourage = append(plan.Encourage,
			"Potassium-rich foods (banana, spinach, sweet potato)",
			"DASH diet (fruit, vegetables, low-fat dairy)")
	}

	if form.HeartDisease == 1 {
		plan.Avoid = append(plan.Avoid,
			"Saturated fat (red meat, butter)",
			"Trans fat (margarine, processed snacks)")
		plan.Encourage = append(plan.Encourage,
			"Omega-3 fatty acids (salmon, mackerel, walnuts)",
			"Olive oil and avocado")
	}

	plan.Meals = append([]Meal(nil), c.Meals[level]...)

	if len(plan.Encourage) == 0 {
		plan.Encourage = []string{"A variety of colorful vegetables and fruit", "Plenty of water (2L a day)"}
	}
	if len(plan.Avoid) == 0 {
		plan.Avoid = []string{"Excess alcohol", "Overeating"}
	}
	return plan
}
