// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krle1978/health-predictor-ai/models"
	"github.com/krle1978/health-predictor-ai/testutil"
)

func newGateway(t *testing.T, base string) *Gateway {
	t.Helper()
	g, err := New(Config{BaseURL: base, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return g
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "backend:8000", "ftp://backend", "http://"} {
		_, err := New(Config{BaseURL: base})
		assert.ErrorIs(t, err, ErrInvalidBaseURL, "base %q", base)
	}
}

func TestEndpoint(t *testing.T) {
	g := newGateway(t, "http://backend:8000/")
	assert.Equal(t, "http://backend:8000/predict/heart", g.Endpoint(models.DomainHeart))

	g = newGateway(t, "http://localhost:3318/api")
	assert.Equal(t, "http://localhost:3318/api/predict/melanoma", g.Endpoint(models.DomainMelanoma))
}

func TestDo_JSONRecord(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	g := newGateway(t, backend.URL)

	payload := models.Record{{Name: "age", Value: 54.0}, {Name: "sex", Value: "1"}}
	resp, err := g.Do(context.Background(), models.DomainHeart, payload)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, models.Success("Positive", 0.873), resp.Result)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/predict/heart", reqs[0].Path)
	assert.Equal(t, "application/json", reqs[0].ContentType)
	assert.JSONEq(t, `{"age":54,"sex":"1"}`, string(reqs[0].Body))
}

func TestDo_RawJSONForwardedVerbatim(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	g := newGateway(t, backend.URL)

	raw := `{"BMI":"","Age":"7"}`
	_, err := g.Do(context.Background(), models.DomainDiabetes, models.RawJSON(raw))
	require.NoError(t, err)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, raw, string(reqs[0].Body))
}

func TestDo_Multipart(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	g := newGateway(t, backend.URL)

	img := models.Attachment{Field: "image", Filename: "mole.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	resp, err := g.Do(context.Background(), models.DomainMelanoma, img)
	require.NoError(t, err)
	assert.Equal(t, "Positive", resp.Result.Prediction)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	r := reqs[0]
	assert.Equal(t, "/predict/melanoma", r.Path)
	assert.Contains(t, r.ContentType, "multipart/form-data")
	assert.Equal(t, 1, r.PartCount, "exactly one part")
	assert.Equal(t, "image", r.FileField)
	assert.Equal(t, "mole.png", r.Filename)
	assert.Equal(t, "image/png", r.FileType)
	assert.Equal(t, img.Data, r.FileData)
}

func TestDo_MultipartDefaults(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	g := newGateway(t, backend.URL)

	_, err := g.Do(context.Background(), models.DomainMelanoma, models.Attachment{Field: "image", Data: []byte("x")})
	require.NoError(t, err)

	r := backend.Requests()[0]
	assert.Equal(t, "image", r.Filename)
	assert.Equal(t, "application/octet-stream", r.FileType)
}

func TestDo_BackendErrorVerbatim(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Reply(http.StatusBadRequest, map[string]string{"error": "Missing field: thal"})
	g := newGateway(t, backend.URL)

	resp, err := g.Do(context.Background(), models.DomainHeart, models.Record{})

	var berr *BackendError
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, http.StatusBadRequest, berr.Status)
	assert.Equal(t, "Missing field: thal", berr.Message)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, models.Failure("Missing field: thal"), resp.Result)
}

func TestDo_BackendErrorGeneric(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.ReplyRaw(http.StatusInternalServerError, `{}`)
	g := newGateway(t, backend.URL)

	_, err := g.Do(context.Background(), models.DomainStroke, models.Record{})

	var berr *BackendError
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, GenericFailure, berr.Message)
}

func TestDo_ErrorWithSuccessStatus(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Reply(http.StatusOK, map[string]string{"error": "model not loaded"})
	g := newGateway(t, backend.URL)

	_, err := g.Do(context.Background(), models.DomainStroke, models.Record{})

	var berr *BackendError
	require.True(t, errors.As(err, &berr))
	assert.Equal(t, "model not loaded", berr.Message)
}

func TestDo_DecodeFailure(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.ReplyRaw(http.StatusBadGateway, "<html>bad gateway</html>")
	g := newGateway(t, backend.URL)

	resp, err := g.Do(context.Background(), models.DomainHeart, models.Record{})

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "decode", terr.Op)
	assert.Nil(t, resp)
}

func TestDo_MissingPrediction(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.ReplyRaw(http.StatusOK, `{"confidence":0.5}`)
	g := newGateway(t, backend.URL)

	_, err := g.Do(context.Background(), models.DomainHeart, models.Record{})

	var terr *TransportError
	assert.True(t, errors.As(err, &terr))
}

func TestDo_MissingConfidence(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.ReplyRaw(http.StatusOK, `{"prediction":"Negative"}`)
	g := newGateway(t, backend.URL)

	resp, err := g.Do(context.Background(), models.DomainHeart, models.Record{})
	require.NoError(t, err)
	assert.Equal(t, models.Success("Negative", 0), resp.Result)
}

func TestDo_NetworkFailure(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	url := backend.URL
	backend.Close()
	g := newGateway(t, url)

	_, err := g.Do(context.Background(), models.DomainHeart, models.Record{})

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "post", terr.Op)
}

func TestDo_Timeout(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	_, release := backend.Hold()
	defer release()

	g, err := New(Config{BaseURL: backend.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = g.Do(context.Background(), models.DomainHeart, models.Record{})

	var terr *TransportError
	assert.True(t, errors.As(err, &terr))
}

func TestDo_PropagatesRequestID(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	g := newGateway(t, backend.URL)

	ctx := WithRequestID(context.Background(), "req-123")
	_, err := g.Do(ctx, models.DomainHeart, models.Record{})
	require.NoError(t, err)

	assert.Equal(t, "req-123", backend.Requests()[0].RequestID)
}

func TestRequestID_Empty(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestSend_FoldsErrors(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		want   models.Result
	}{
		{"success", http.StatusOK, `{"prediction":"Negative","confidence":0.12}`, models.Success("Negative", 0.12)},
		{"backend error", http.StatusUnprocessableEntity, `{"error":"Invalid image"}`, models.Failure("Invalid image")},
		{"generic backend error", http.StatusInternalServerError, `{"detail":"boom"}`, models.Failure(GenericFailure)},
		{"unreadable reply", http.StatusOK, `not json`, models.Failure(GenericFailure)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			backend := testutil.NewFakeBackend(t)
			backend.ReplyRaw(tc.status, tc.body)
			g := newGateway(t, backend.URL)

			got := g.Send(context.Background(), models.DomainHeart, models.Record{})
			assert.Equal(t, tc.want, got)
			assert.Len(t, backend.Requests(), 1, "exactly one outbound request")
		})
	}
}
