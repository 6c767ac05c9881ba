// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the health predictor API.

# Route Registration

NewRouter returns the full handler, already wrapped with request IDs and
CORS:

	handler := router.NewRouter(gw, cfg)

# Endpoints

Health:

	GET /health

Form descriptors:

	GET /api/domains - Domains, fields and validation policy

Proxy (same-origin path to the Inference Backend):

	POST /api/predict/{domain} - JSON body, or multipart image for melanoma

Server-side forms:

	POST /api/forms/{domain} - Raw form state in, presented result out

# Handler Initialization

	predictHandler := handlers.NewPredictHandler(gw, cfg)
	formHandler := handlers.NewFormHandler(gw, cfg)

Both handlers share the one Gateway built at startup.
*/
package router
