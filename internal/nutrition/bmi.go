/*
Package nutrition holds the pediatric feeding rules. The BMI-for-age
classification and the per-age-bucket dietary guidelines live here,
along with the canned meal suggestions served when the model path is
down. Everything here is pure data and pure functions.
*/
package nutrition

// ChildProfile holds the biometric inputs for one advice request.
// Built per request and discarded with it.
type ChildProfile struct {
	AgeMonths int
	WeightKg  float64
	HeightCm  float64
}

// BMI returns weight divided by height squared (kg/m2). A non-positive
// height yields 0 so reports never show Inf or NaN.
func (p ChildProfile) BMI() float64 {
	if p.HeightCm <= 0 {
		return 0
	}
	heightM := p.HeightCm / 100
	return p.WeightKg / (heightM * heightM)
}

// AgeYears converts the age in months to fractional years for display.
func (p ChildProfile) AgeYears() float64 {
	return float64(p.AgeMonths) / 12
}

// Category is the pediatric BMI classification. The values double as
// the user-facing labels.
type Category string

const (
	CategoryUnderweight Category = "Underweight"
	CategoryNormal      Category = "Normal weight"
	CategoryOverweight  Category = "Overweight"
	CategoryObese       Category = "Obese"

	// CategoryInvalid flags a non-positive height. It is a display
	// value, not an error; callers carry on with it.
	CategoryInvalid Category = "Invalid height"
)

// bmiCutoffs are exclusive upper bounds: a BMI strictly below a field
// falls into that category, anything at or above the last bound is
// obese.
type bmiCutoffs struct {
	underweight float64
	normal      float64
	overweight  float64
}

// The two tables below are the single source of truth for the
// classification. Children under 24 months use the first, everyone up
// to five years the second.
var (
	infantCutoffs  = bmiCutoffs{underweight: 14, normal: 18, overweight: 20}
	toddlerCutoffs = bmiCutoffs{underweight: 13.5, normal: 17, overweight: 19}
)

// Classify maps a child's biometrics to a BMI category. Pure and
// deterministic; a non-positive height returns CategoryInvalid instead
// of an error.
func Classify(weightKg, heightCm float64, ageMonths int) Category {
	if heightCm <= 0 {
		return CategoryInvalid
	}

	profile := ChildProfile{AgeMonths: ageMonths, WeightKg: weightKg, HeightCm: heightCm}
	bmi := profile.BMI()

	cutoffs := toddlerCutoffs
	if ageMonths < 24 {
		cutoffs = infantCutoffs
	}

	switch {
	case bmi < cutoffs.underweight:
		return CategoryUnderweight
	case bmi < cutoffs.normal:
		return CategoryNormal
	case bmi < cutoffs.overweight:
		return CategoryOverweight
	default:
		return CategoryObese
	}
}
