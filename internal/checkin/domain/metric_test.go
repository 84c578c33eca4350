package domain

import "testing"

// TestComputeIMC tests the derived body mass index
func TestComputeIMC(t *testing.T) {
	tests := []struct {
		name     string
		weightKg float64
		heightCm float64
		expected float64
	}{
		{"Typical adult", 70, 175, 22.86},
		{"Rounds to two decimals", 80, 183, 23.89},
		{"Short stature", 45, 150, 20},
		{"Heavy", 120, 170, 41.52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeIMC(tt.weightKg, tt.heightCm)
			if got != tt.expected {
				t.Errorf("Expected %.2f, got %.2f", tt.expected, got)
			}
		})
	}
}

// TestComputeIMCMonotonic tests that more weight never lowers the index
func TestComputeIMCMonotonic(t *testing.T) {
	previous := 0.0
	for weight := 40.0; weight <= 150; weight += 5 {
		imc := ComputeIMC(weight, 175)
		if imc < previous {
			t.Fatalf("Expected index to grow with weight, got %.2f after %.2f", imc, previous)
		}
		previous = imc
	}
}

// TestComputeIMCDecreasesWithHeight tests that more height never raises the
// index for a fixed weight
func TestComputeIMCDecreasesWithHeight(t *testing.T) {
	previous := ComputeIMC(70, 150)
	for height := 155.0; height <= 210; height += 5 {
		imc := ComputeIMC(70, height)
		if imc > previous {
			t.Fatalf("Expected index to shrink with height, got %.2f after %.2f", imc, previous)
		}
		previous = imc
	}
}

// TestClassifyIMC tests the clinical bands and their boundaries
func TestClassifyIMC(t *testing.T) {
	tests := []struct {
		imc      float64
		expected string
	}{
		{16, "underweight"},
		{18.49, "underweight"},
		{18.5, "normal"},
		{24.99, "normal"},
		{25, "overweight"},
		{29.99, "overweight"},
		{30, "obesity_1"},
		{34.99, "obesity_1"},
		{35, "obesity_2"},
		{39.99, "obesity_2"},
		{40, "obesity_3"},
		{55, "obesity_3"},
	}

	for _, tt := range tests {
		if got := ClassifyIMC(tt.imc); got != tt.expected {
			t.Errorf("Expected %.2f to classify as %s, got %s", tt.imc, tt.expected, got)
		}
	}
}
