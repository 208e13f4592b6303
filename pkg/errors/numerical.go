package errors

import (
	"math"
)

// CheckNumericalStability checks if values contain NaN or Inf
// and returns an error if numerical instability is detected.
func CheckNumericalStability(operation string, values []float64, iteration int) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewNumericalInstabilityError(operation, values, iteration)
		}
	}
	return nil
}

// CheckScalar checks a single scalar value for numerical instability.
func CheckScalar(operation string, value float64, iteration int) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, iteration)
	}
	return nil
}

// CheckProbabilities checks that every value is a valid probability in [0, 1].
// Scores produced by an external trainer pass through here before any curve
// construction, so a misbehaving trainer fails loudly instead of skewing AUC.
func CheckProbabilities(operation string, scores []float64) error {
	if err := CheckNumericalStability(operation, scores, 0); err != nil {
		return err
	}
	for _, s := range scores {
		if s < 0 || s > 1 {
			return NewValueError(operation, "scores must be probabilities in [0, 1]")
		}
	}
	return nil
}

// ClipValue clips a value to the range [min, max].
func ClipValue(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
