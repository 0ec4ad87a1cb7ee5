package dashboard

import (
	"math"
	"sort"

	"github.com/strokecare/platform/pkg/common/models"
)

type TierCounts struct {
	Total  int `json:"total"`
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

func CountByTier[T any](items []T, level func(T) models.RiskLevel) TierCounts {
	counts := TierCounts{Total: len(items)}
	for _, item := range items {
		switch level(item) {
		case models.RiskHigh:
			counts.High++
		case models.RiskMedium:
			counts.Medium++
		case models.RiskLow:
			counts.Low++
		}
	}
	return counts
}

// AverageScore is the mean rounded to one decimal, or 0 for no items.
func AverageScore[T any](items []T, score func(T) int) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0
	for _, item := range items {
		sum += score(item)
	}
	mean := float64(sum) / float64(len(items))
	return math.Round(mean*10) / 10
}

func priority(level models.RiskLevel) int {
	switch level {
	case models.RiskHigh:
		return 0
	case models.RiskMedium:
		return 1
	case models.RiskLow:
		return 2
	}
	return 3
}

// SortByPriority returns a copy ordered High, Medium, Low. Order within a
// tier is preserved.
func SortByPriority(grants []models.SharedRecordGrant) []models.SharedRecordGrant {
	out := append([]models.SharedRecordGrant(nil), grants...)
	sort.SliceStable(out, func(i, j int) bool {
		return priority(out[i].RiskLevel) < priority(out[j].RiskLevel)
	})
	return out
}

func TopN[T any](items []T, n int) []T {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

// NewestFirst returns a reversed copy of records held in creation order.
func NewestFirst[T any](items []T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[len(items)-1-i] = item
	}
	return out
}

func assessmentLevel(a models.HealthAssessment) models.RiskLevel { return a.RiskLevel }

func assessmentScore(a models.HealthAssessment) int { return a.TotalScore }

func grantLevel(g models.SharedRecordGrant) models.RiskLevel { return g.RiskLevel }
