// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package gateway sends prediction requests to the Inference Backend.

# Dispatch

A Gateway is built once from a base address:

	gw, err := gateway.New(gateway.Config{BaseURL: cfg.BackendURL, Timeout: cfg.RequestTimeout})

Every request is POST {base}/predict/{domain}. Records and raw JSON go out as
application/json; an Attachment goes out as multipart/form-data with a single
file part. The same Gateway works against the backend directly or against
this server's /api prefix.

# Errors

Do returns one of two error types:

  - *TransportError: the request could not be sent or the reply was not JSON
  - *BackendError: the backend answered with an error payload or a non-2xx status

Send folds both into the error variant of models.Result. Backend messages are
kept verbatim; transport failures become "Prediction failed".

# Request IDs

WithRequestID stores an ID on the context. Do forwards it as X-Request-ID.
*/
package gateway
