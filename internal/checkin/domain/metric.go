package domain

import "math"

// ComputeIMC computes the body mass index from weight in kilograms and height
// in centimeters, rounded to two decimal places
func ComputeIMC(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100
	imc := weightKg / (heightM * heightM)
	return math.Round(imc*100) / 100
}

// ClassifyIMC maps a body mass index to its clinical band
func ClassifyIMC(imc float64) string {
	switch {
	case imc < 18.5:
		return "underweight"
	case imc < 25:
		return "normal"
	case imc < 30:
		return "overweight"
	case imc < 35:
		return "obesity_1"
	case imc < 40:
		return "obesity_2"
	default:
		return "obesity_3"
	}
}
