// Package bolus estimates a meal plus correction insulin dose.
package bolus

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Disclaimer must be shown next to every estimate.
const Disclaimer = "Este cálculo é apenas uma estimativa e não substitui a orientação do seu profissional de saúde."

// ErrInvalidInput is returned for non-positive, non-finite or unparseable input.
var ErrInvalidInput = errors.New("invalid input")

// Params holds the patient's dosing parameters.
type Params struct {
	// ICR is the insulin-to-carb ratio in grams per unit
	ICR float64
	// Target is the target glucose in mg/dL
	Target float64
	// Sensitivity is the mg/dL drop expected per unit
	Sensitivity float64
}

// DefaultParams are the parameters used by the calculator screen.
var DefaultParams = Params{
	ICR:         15,
	Target:      100,
	Sensitivity: 50,
}

// Dose is the result of a bolus calculation.
type Dose struct {
	// Units keeps full precision; use Rounded for display
	Units      float64
	Meal       float64
	Correction float64
}

// Rounded returns the dose rounded to one decimal place.
func (d Dose) Rounded() float64 {
	return math.Round(d.Units*10) / 10
}

// Estimate computes a dose with the default parameters.
func Estimate(carbGrams, currentGlucose float64) (Dose, error) {
	return DefaultParams.Dose(carbGrams, currentGlucose)
}

// Dose computes max(0, carbs/ICR + (glucose-target)/sensitivity).
func (p Params) Dose(carbGrams, currentGlucose float64) (Dose, error) {
	if !positiveFinite(carbGrams) || !positiveFinite(currentGlucose) {
		return Dose{}, ErrInvalidInput
	}
	if !positiveFinite(p.ICR) || !positiveFinite(p.Sensitivity) || !isFinite(p.Target) {
		return Dose{}, ErrInvalidInput
	}

	meal := carbGrams / p.ICR
	correction := (currentGlucose - p.Target) / p.Sensitivity

	return Dose{
		Units:      math.Max(0, meal+correction),
		Meal:       meal,
		Correction: correction,
	}, nil
}

// EstimateStrings parses user-entered values and estimates a dose with the
// default parameters.
func EstimateStrings(carbGrams, currentGlucose string) (Dose, error) {
	return DefaultParams.DoseStrings(carbGrams, currentGlucose)
}

// DoseStrings parses user-entered values and computes the dose.
func (p Params) DoseStrings(carbGrams, currentGlucose string) (Dose, error) {
	carbs, err := ParseDecimal(carbGrams)
	if err != nil {
		return Dose{}, err
	}
	glucose, err := ParseDecimal(currentGlucose)
	if err != nil {
		return Dose{}, err
	}
	return p.Dose(carbs, glucose)
}

// ParseDecimal accepts either a decimal comma or a decimal dot. Only plain
// decimal notation is allowed: digits, a sign, one separator and an exponent.
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, notDecimalRune) >= 0 {
		return 0, ErrInvalidInput
	}
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, ErrInvalidInput
	}
	return v, nil
}

func notDecimalRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return false
	case r == '.' || r == ',' || r == '+' || r == '-' || r == 'e' || r == 'E':
		return false
	}
	return true
}

func positiveFinite(v float64) bool {
	return isFinite(v) && v > 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
