// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the health predictor API.

# Handler Types

  - PredictHandler: domain listing and the same-origin proxy
  - FormHandler: server-side form submission

Handlers are created via constructor functions that accept the Gateway (or
any forms.Sender) and Config:

	predictHandler := handlers.NewPredictHandler(gw, cfg)

# Proxy

	POST /api/predict/{domain} → Proxy

JSON domains must send a JSON object; it is forwarded byte for byte. The
melanoma domain takes multipart/form-data with an "image" part, capped at
MaxUploadBytes, and is re-encoded as a single-part upload. The backend status
is mirrored and the body normalized to {prediction, confidence} or {error}.
Unreachable or unreadable backends yield 502 with "Prediction failed".

# Form Submission

	POST /api/forms/{domain} → Submit

The body is raw form state. Each request mounts a fresh forms.Form, applies
the domain's validation policy and dispatches once. Strict validation
failures return 422 naming the field and never reach the backend. Any
settled result, including a backend error, returns 200 with
{result, display, derived}.
*/
package handlers
