// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/krle1978/health-predictor-ai/cliparse"
	"github.com/krle1978/health-predictor-ai/forms"
	"github.com/krle1978/health-predictor-ai/gateway"
	"github.com/krle1978/health-predictor-ai/middleware"
	"github.com/krle1978/health-predictor-ai/models"
)

// maxJSONBytes caps proxied JSON bodies; form payloads are a few hundred bytes
const maxJSONBytes = 64 << 10

type PredictHandler struct {
	gw  *gateway.Gateway
	cfg cliparse.Config
}

func NewPredictHandler(gw *gateway.Gateway, cfg cliparse.Config) *PredictHandler {
	return &PredictHandler{gw: gw, cfg: cfg}
}

// ListDomains handles GET /api/domains
func (h *PredictHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	resp := models.ListDomainsResponse{Domains: make([]models.DomainInfo, 0, len(models.Domains))}
	for _, spec := range forms.Specs() {
		resp.Domains = append(resp.Domains, spec.Info())
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Proxy handles POST /api/predict/{domain}. JSON domains forward the body
// unchanged; melanoma re-encodes the uploaded image. The backend status and
// normalized body are mirrored back to the caller.
func (h *PredictHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	spec, ok := lookupSpec(w, r)
	if !ok {
		return
	}

	var payload models.Payload
	if spec.Encoding() == models.EncodingMultipart {
		a, ok := h.readUpload(w, r)
		if !ok {
			return
		}
		payload = a
	} else {
		body, ok := readJSONObject(w, r)
		if !ok {
			return
		}
		payload = models.RawJSON(body)
	}

	resp, err := h.gw.Do(r.Context(), spec.Domain, payload)
	if err != nil {
		var berr *gateway.BackendError
		if errors.As(err, &berr) {
			middleware.JSONResponse(w, berr.Status, models.BackendErrorResponse{Error: berr.Message})
			return
		}
		slog.Error("proxy request failed", "domain", spec.Domain, "error", err)
		middleware.JSONResponse(w, http.StatusBadGateway, models.BackendErrorResponse{Error: gateway.GenericFailure})
		return
	}

	middleware.JSONResponse(w, resp.Status, resp.Result)
}

// readUpload extracts the single image part of a multipart request
func (h *PredictHandler) readUpload(w http.ResponseWriter, r *http.Request) (models.Attachment, bool) {
	limit := h.cfg.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<10)

	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge,
				"image exceeds "+humanize.Bytes(uint64(limit)))
			return models.Attachment{}, false
		}
		middleware.ErrorResponse(w, http.StatusBadRequest, "Expected multipart/form-data")
		return models.Attachment{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(forms.ImageField)
	if err != nil {
		middleware.FieldErrorResponse(w, forms.ImageField, "image is required")
		return models.Attachment{}, false
	}
	defer file.Close()

	if header.Size > limit {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge,
			"image exceeds "+humanize.Bytes(uint64(limit)))
		return models.Attachment{}, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read upload", "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Failed to read image")
		return models.Attachment{}, false
	}
	if len(data) == 0 {
		middleware.FieldErrorResponse(w, forms.ImageField, "image is required")
		return models.Attachment{}, false
	}

	slog.Debug("image received",
		"filename", header.Filename,
		"size", humanize.Bytes(uint64(len(data))),
	)

	return models.Attachment{
		Field:       forms.ImageField,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, true
}

// readJSONObject reads a bounded body and checks that it is a JSON object
func readJSONObject(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBytes))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge,
			"body exceeds "+humanize.Bytes(maxJSONBytes))
		return nil, false
	}

	trimmed := bytes.TrimSpace(body)
	var obj map[string]json.RawMessage
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &obj) != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "body must be a JSON object")
		return nil, false
	}
	return trimmed, true
}

func lookupSpec(w http.ResponseWriter, r *http.Request) (*forms.Spec, bool) {
	domain, ok := models.ParseDomain(r.PathValue("domain"))
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown domain")
		return nil, false
	}
	spec, _ := forms.Lookup(domain)
	return spec, true
}
