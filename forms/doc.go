// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package forms holds the per-domain form models.

# Specs

Each predictor is described by a static Spec: its fields (name, label, kind,
required, enum options), derived values, wire order and validation policy.

	HeartSpec    strict, JSON
	DiabetesSpec permissive, JSON, derived BMI from Height/Weight
	StrokeSpec   permissive, JSON
	MelanomaSpec strict, multipart image upload

Specs drive both rendering (Spec.Info) and payload construction.

# Form Lifecycle

A Form is mounted with New and discarded on navigation:

	f := forms.New(forms.DiabetesSpec)
	f.UpdateField("Height", "180")
	f.UpdateField("Weight", "80")
	f.Derived()["BMI"] // {Value: 24.7, Valid: true}

UpdateField stores raw text only; validation is deferred to BuildPayload.

# Validation Policy

Strict forms run every sent field through validate.Fields and fail with a
*validate.ValidationError naming the first bad field. Permissive forms send
numbers that parse as numbers and forward any other text unchanged.

# Submission

	res, err := f.Submit(ctx, gw)

Submit holds an in-flight guard; a second call while the first is pending
returns ErrSubmitting and sends nothing. Transport and backend failures come
back as the error variant of models.Result, not as err.
*/
package forms
