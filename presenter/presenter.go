// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package presenter

import (
	"fmt"

	"github.com/krle1978/health-predictor-ai/models"
)

// PositiveToken is the prediction label that marks a high-risk outcome
const PositiveToken = "Positive"

type messages struct {
	high string
	low  string
}

var byDomain = map[models.Domain]messages{
	models.DomainHeart:    {high: "⚠️ High Risk of Heart Disease", low: "✅ No Significant Heart Risk"},
	models.DomainDiabetes: {high: "⚠️ Diabetes Risk Detected", low: "✅ No Diabetes Risk"},
	models.DomainStroke:   {high: "⚠️ Elevated Stroke Risk", low: "✅ Low Stroke Risk"},
	models.DomainMelanoma: {high: "⚠️ Possible Melanoma Detected", low: "✅ No Melanoma Detected"},
}

// Present renders a result for display. Classification is an exact match on
// PositiveToken; confidence is shown as a percentage and never affects it.
func Present(domain models.Domain, r models.Result) models.Display {
	if r.IsZero() {
		return models.Display{}
	}
	if r.Failed() {
		return models.Display{Risk: models.RiskNone, Message: r.Error}
	}

	m := byDomain[domain]
	d := models.Display{
		Label:      r.Prediction,
		Confidence: FormatConfidence(r.Confidence),
	}
	if r.Prediction == PositiveToken {
		d.Risk = models.RiskHigh
		d.Message = m.high
	} else {
		d.Risk = models.RiskLow
		d.Message = m.low
	}
	if d.Message == "" {
		d.Message = r.Prediction
	}
	return d
}

// FormatConfidence renders a probability as a one-decimal percentage.
// Out-of-range values are shown as-is.
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.1f%%", c*100)
}
