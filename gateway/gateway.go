// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/krle1978/health-predictor-ai/models"
)

const (
	// GenericFailure is shown when the backend gives no error text
	GenericFailure = "Prediction failed"

	RequestIDHeader = "X-Request-ID"

	maxIdleConns     = 10
	idleTimeout      = 60 * time.Second
	maxResponseBytes = 1 << 20
)

var ErrInvalidBaseURL = errors.New("backend base URL must be an absolute http(s) URL")

// TransportError is a network failure or an unreadable response
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BackendError is an error payload returned by the backend
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string { return e.Message }

type Config struct {
	// BaseURL is the backend address, or this server's /api prefix for the
	// same-origin proxy path
	BaseURL string
	// Timeout bounds each request; zero means no bound
	Timeout time.Duration
	// Client overrides the default HTTP client
	Client *http.Client
}

// Gateway issues prediction requests to the Inference Backend
type Gateway struct {
	base   string
	client *http.Client
}

// Response is the backend status plus the normalized result
type Response struct {
	Status int
	Result models.Result
}

func New(cfg Config) (*Gateway, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				MaxIdleConns:    maxIdleConns,
				IdleConnTimeout: idleTimeout,
			},
		}
	}

	return &Gateway{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		client: client,
	}, nil
}

// Endpoint returns the prediction URL for a domain
func (g *Gateway) Endpoint(domain models.Domain) string {
	return g.base + "/predict/" + string(domain)
}

// Do sends one request and returns the backend status with the normalized
// result. Failures are *TransportError or *BackendError; a BackendError
// still comes with a Response carrying the backend status.
func (g *Gateway) Do(ctx context.Context, domain models.Domain, payload models.Payload) (*Response, error) {
	body, contentType, err := encode(payload)
	if err != nil {
		return nil, &TransportError{Op: "encode", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Endpoint(domain), body)
	if err != nil {
		return nil, &TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if id := RequestID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "post", Err: err}
	}
	defer resp.Body.Close()

	slog.Info("prediction dispatched",
		"domain", domain,
		"encoding", payload.Encoding().String(),
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	var reply struct {
		Prediction *string  `json:"prediction"`
		Confidence *float64 `json:"confidence"`
		Error      string   `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&reply); err != nil {
		return nil, &TransportError{Op: "decode", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || (reply.Prediction == nil && reply.Error != "") {
		msg := reply.Error
		if msg == "" {
			msg = GenericFailure
		}
		return &Response{Status: resp.StatusCode, Result: models.Failure(msg)},
			&BackendError{Status: resp.StatusCode, Message: msg}
	}
	if reply.Prediction == nil {
		return nil, &TransportError{Op: "decode", Err: errors.New("response has no prediction")}
	}

	var confidence float64
	if reply.Confidence != nil {
		confidence = *reply.Confidence
	}
	return &Response{Status: resp.StatusCode, Result: models.Success(*reply.Prediction, confidence)}, nil
}

// Send is Do with every failure folded into the error variant of the result.
// Backend messages are kept verbatim; transport failures get GenericFailure.
func (g *Gateway) Send(ctx context.Context, domain models.Domain, payload models.Payload) models.Result {
	resp, err := g.Do(ctx, domain, payload)
	if err == nil {
		return resp.Result
	}

	var berr *BackendError
	if errors.As(err, &berr) {
		return models.Failure(berr.Message)
	}
	slog.Error("prediction request failed", "domain", domain, "error", err)
	return models.Failure(GenericFailure)
}

func encode(payload models.Payload) (io.Reader, string, error) {
	switch p := payload.(type) {
	case models.Record:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(b), "application/json", nil
	case models.RawJSON:
		return bytes.NewReader(p), "application/json", nil
	case models.Attachment:
		return encodeMultipart(p)
	default:
		return nil, "", fmt.Errorf("unsupported payload type %T", payload)
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeMultipart(a models.Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := a.Filename
	if filename == "" {
		filename = a.Field
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(a.Field), quoteEscaper.Replace(filename)))
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(a.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

type requestIDKey struct{}

// WithRequestID stores a request ID to forward on outbound calls
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the ID stored by WithRequestID
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
