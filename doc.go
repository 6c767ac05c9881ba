// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the health predictor proxy server.

The server sits between a browser or terminal client and the Inference
Backend. It lists the four predictor forms (heart, diabetes, stroke,
melanoma), forwards prediction requests to the backend and normalizes the
replies to {prediction, confidence} or {error}.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	BACKEND_URL=http://localhost:8000 go run .

Or with flags:

	go run . -p 3318 -b http://localhost:8000 -timeout 20s

# Configuration

Required settings:

  - BACKEND_URL (-b): Inference backend base address

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - REQUEST_TIMEOUT (-timeout): Backend request bound (default: 30s, 0 disables)
  - MAX_UPLOAD_BYTES (-max-upload): Largest image upload (default: 10 MiB)
  - ALLOWED_ORIGIN (-origin): CORS origin
  - LOG_LEVEL (-log-level): debug, info, warn or error

# Architecture

  - forms: per-domain form models, derived values, payload shaping
  - validate: strict-policy field validation
  - gateway: outbound JSON and multipart requests, response normalization
  - presenter: risk classification and confidence formatting
  - view: which predictor is active
  - handlers: proxy and form endpoints
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, request IDs, logging, JSON helpers
  - models: shared data model and wire types
  - cliparse: Configuration parsing
  - tui: terminal client (cmd/predictor-tui)

See package documentation for each component.
*/
package main
