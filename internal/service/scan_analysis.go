package service

import (
	"fmt"

	"levelup/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// scanXP is the fixed award per approved scan.
var scanXP = map[models.ScanType]int{
	models.ScanBody: 8,
	models.ScanFace: 6,
	models.ScanFood: 5,
}

// Analyzer produces the analysis document for a scan.
type Analyzer interface {
	Analyze(scanType models.ScanType, data []byte) map[string]any
}

// MockAnalyzer fills analyses with randomized but plausible values.
type MockAnalyzer struct {
	faker *gofakeit.Faker
}

// NewMockAnalyzer returns an analyzer seeded from seed. Zero picks a random seed.
func NewMockAnalyzer(seed int64) *MockAnalyzer {
	return &MockAnalyzer{faker: gofakeit.New(seed)}
}

func (a *MockAnalyzer) Analyze(scanType models.ScanType, _ []byte) map[string]any {
	switch scanType {
	case models.ScanBody:
		return a.body()
	case models.ScanFace:
		return a.face()
	case models.ScanFood:
		return a.food()
	}
	return nil
}

func (a *MockAnalyzer) body() map[string]any {
	f := a.faker
	return map[string]any{
		"posture":        "Slight forward head tilt",
		"postureDetails": "Mild forward head posture",
		"composition": map[string]any{
			"muscle":   fmt.Sprintf("%d%%", f.IntRange(35, 45)),
			"bodyType": f.RandomString([]string{"Mesomorph", "Ectomorph", "Endomorph"}),
		},
		"recommendations": []string{
			"Maintain good posture throughout the day",
			"Include strength training 3-4x per week",
			"Focus on compound movements",
		},
	}
}

func (a *MockAnalyzer) face() map[string]any {
	f := a.faker
	return map[string]any{
		"skinType":    f.RandomString([]string{"Combination", "Oily", "Dry", "Normal"}),
		"description": "Balanced skin with minor concerns",
		"concerns": []string{f.RandomString([]string{
			"Minor acne, slight tone unevenness",
			"Dry patches on cheeks",
			"Oily T-zone",
			"Fine lines around eyes",
		})},
		"aiSuggestion":       "Gentle cleansing, niacinamide AM, vitamin C AM, retinol PM, SPF 50+",
		"recommendedProduct": f.RandomString([]string{"Youth-Glow Serum", "Hydration Boost Cream", "Clear Skin Toner"}),
		"glowScore":          f.IntRange(65, 85),
	}
}

func (a *MockAnalyzer) food() map[string]any {
	f := a.faker
	return map[string]any{
		"foodName": f.RandomString([]string{"Grilled Chicken Salad", "Pasta Carbonara", "Salmon Bowl", "Veggie Wrap"}),
		"nutrition": map[string]any{
			"calories": f.IntRange(400, 700),
			"protein":  f.IntRange(20, 40),
			"carbs":    f.IntRange(40, 80),
			"fat":      f.IntRange(10, 25),
		},
		"suggestion":     f.RandomString([]string{"Add more greens", "Reduce portion size", "Good balanced meal", "Include more protein"}),
		"recommendation": f.RandomString([]string{"Include more fiber", "Add healthy fats", "Great choice!", "Consider whole grains"}),
	}
}
