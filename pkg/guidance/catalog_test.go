package guidance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/strokecare/platform/pkg/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Message(models.RiskHigh), cat.Message(models.RiskHigh))
}

func TestLoadMergesMissingTiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guidance.yaml")
	content := []byte(`tiers:
  High:
    message: "call your doctor"
    recommendations:
      - "see a neurologist"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "call your doctor", cat.Message(models.RiskHigh))
	assert.Equal(t, Default().Message(models.RiskLow), cat.Message(models.RiskLow))
	assert.Equal(t, Default().Factors, cat.Factors)
	assert.Len(t, cat.Meals[models.RiskHigh], 3)
}

func TestLoadRejectsEmptyCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("factors: {}\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestRecommendationsAddFactorAdvice(t *testing.T) {
	cat := Default()
	form := models.FormData{
		Hypertension:    1,
		AvgGlucoseLevel: ptr(130),
		BMI:             ptr(31),
		SmokingStatus:   models.SmokingSmokes,
	}

	recs := cat.Recommendations(models.RiskMedium, form)
	require.Len(t, recs, 7)
	assert.Equal(t, cat.Factors.Hypertension, recs[3])
	assert.Equal(t, cat.Factors.Smoker, recs[6])

	// thresholds are strict
	plain := cat.Recommendations(models.RiskLow, models.FormData{AvgGlucoseLevel: ptr(125), BMI: ptr(30)})
	assert.Len(t, plain, 3)
}

func TestDietPlanByRiskFactors(t *testing.T) {
	cat := Default()

	plan := cat.DietPlan(models.RiskHigh, models.FormData{
		AvgGlucoseLevel: ptr(160),
		BMI:             ptr(32),
		Hypertension:    1,
		HeartDisease:    1,
	})
	assert.Len(t, plan.Avoid, 8)
	assert.Len(t, plan.Encourage, 8)
	assert.NotEmpty(t, plan.Portions)
	assert.Equal(t, cat.Meals[models.RiskHigh], plan.Meals)

	healthy := cat.DietPlan(models.RiskLow, models.FormData{AvgGlucoseLevel: ptr(90), BMI: ptr(22)})
	assert.Equal(t, []string{"Excess alcohol", "Overeating"}, healthy.Avoid)
	assert.Len(t, healthy.Encourage, 2)
	assert.Empty(t, healthy.Portions)
}
