// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/krle1978/health-predictor-ai/cliparse"
	"github.com/krle1978/health-predictor-ai/forms"
	"github.com/krle1978/health-predictor-ai/middleware"
	"github.com/krle1978/health-predictor-ai/models"
	"github.com/krle1978/health-predictor-ai/presenter"
	"github.com/krle1978/health-predictor-ai/validate"
)

type FormHandler struct {
	sender  forms.Sender
	uploads *PredictHandler
}

// NewFormHandler builds the server-side form endpoint. Submissions are sent
// through sender; uploads share the proxy's size limit.
func NewFormHandler(sender forms.Sender, cfg cliparse.Config) *FormHandler {
	return &FormHandler{
		sender:  sender,
		uploads: &PredictHandler{cfg: cfg},
	}
}

// Submit handles POST /api/forms/{domain}. The body is the raw form state
// ({"field": "raw"}; numbers are accepted as their literal text) or, for
// melanoma, a multipart upload. Each request mounts a fresh form.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	spec, ok := lookupSpec(w, r)
	if !ok {
		return
	}

	form := forms.New(spec)
	if spec.Encoding() == models.EncodingMultipart {
		a, ok := h.uploads.readUpload(w, r)
		if !ok {
			return
		}
		if err := form.SetFile(forms.ImageField, a); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		var state map[string]json.RawMessage
		if err := middleware.ParseJSONBody(r, &state); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		for name, raw := range state {
			if err := form.UpdateField(name, rawText(raw)); err != nil {
				middleware.FieldErrorResponse(w, name, err.Error())
				return
			}
		}
	}

	res, err := form.Submit(r.Context(), h.sender)
	if err != nil {
		var verr *validate.ValidationError
		if errors.As(err, &verr) {
			middleware.FieldErrorResponse(w, verr.Field, verr.Error())
			return
		}
		slog.Error("form submission failed", "domain", spec.Domain, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Submission failed")
		return
	}

	resp := models.SubmitFormResponse{
		Result:  res,
		Display: presenter.Present(spec.Domain, res),
	}
	for name, n := range form.Derived() {
		if !n.Valid {
			continue
		}
		if resp.Derived == nil {
			resp.Derived = make(map[string]float64)
		}
		resp.Derived[name] = n.Value
	}

	slog.Info("form submitted",
		"domain", spec.Domain,
		"policy", spec.Policy.String(),
		"failed", res.Failed(),
	)
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// rawText turns a JSON value into form input: strings are unquoted, null is
// empty, anything else keeps its literal text.
func rawText(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return s
}
