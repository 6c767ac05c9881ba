// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the data model shared by the forms, gateway and
presentation layers, plus the JSON request and response types of the API.

# Domains

	DomainHeart    = "heart"
	DomainDiabetes = "diabetes"
	DomainStroke   = "stroke"
	DomainMelanoma = "melanoma"

ParseDomain maps a URL path segment to a Domain.

# Payloads

A Payload is a backend-ready prediction request. Three variants exist:

  - Record: ordered typed entries, encoded as a JSON object in entry order
  - RawJSON: a JSON document forwarded unchanged by the proxy
  - Attachment: one binary file, sent as multipart/form-data

Encoding reports which transport a payload needs.

# Results

Result holds exactly one of two variants:

	models.Success("Positive", 0.87) // prediction + confidence
	models.Failure("Prediction failed")

The zero Result means no result yet. Result marshals to the backend wire
shape: {prediction, confidence} or {error}.

# Response Types

  - ListDomainsResponse: domains with field descriptors
  - SubmitFormResponse: result, display, derived values
  - ErrorResponse: error, message, field
*/
package models
