// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/krle1978/health-predictor-ai/cliparse"
	"github.com/krle1978/health-predictor-ai/gateway"
	"github.com/krle1978/health-predictor-ai/handlers"
	"github.com/krle1978/health-predictor-ai/middleware"
)

// NewRouter wires every route and wraps the mux with request IDs and CORS
func NewRouter(gw *gateway.Gateway, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	predictHandler := handlers.NewPredictHandler(gw, cfg)
	formHandler := handlers.NewFormHandler(gw, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Form descriptors
	mux.HandleFunc("GET /api/domains", middleware.WithLogging(predictHandler.ListDomains))

	// Same-origin proxy to the inference backend
	mux.HandleFunc("POST /api/predict/{domain}", middleware.WithLogging(predictHandler.Proxy))

	// Server-side form submission
	mux.HandleFunc("POST /api/forms/{domain}", middleware.WithLogging(formHandler.Submit))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("health-predictor API v1"))
	})

	return middleware.CORS(cfg.AllowedOrigin)(middleware.WithRequestID(mux))
}
