// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package validate

import (
	"fmt"
	"math"
)

// Reasons reported by ValidationError
const (
	ReasonMissing    = "is required"
	ReasonNotNumeric = "must be a number"
)

// ValidationError names the first field that blocks submission
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Check is one typed field value awaiting validation
type Check struct {
	Name    string
	Numeric bool
	Present bool
	Value   float64
}

// Fields checks presence and numeric well-formedness in the given order.
// A numeric Check that failed to parse carries math.NaN() as Value.
func Fields(checks []Check) error {
	for _, c := range checks {
		if !c.Present {
			return &ValidationError{Field: c.Name, Reason: ReasonMissing}
		}
		if c.Numeric && math.IsNaN(c.Value) {
			return &ValidationError{Field: c.Name, Reason: ReasonNotNumeric}
		}
	}
	return nil
}
