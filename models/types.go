package models

import (
	"bytes"
	"encoding/json"
)

// Domain identifies one disease-risk predictor
type Domain string

const (
	DomainHeart    Domain = "heart"
	DomainDiabetes Domain = "diabetes"
	DomainStroke   Domain = "stroke"
	DomainMelanoma Domain = "melanoma"
)

// Domains lists every predictor in selector order
var Domains = []Domain{DomainHeart, DomainDiabetes, DomainStroke, DomainMelanoma}

// ParseDomain maps a path segment to a known domain
func ParseDomain(s string) (Domain, bool) {
	for _, d := range Domains {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// Encoding is the transport encoding of a prediction request
type Encoding int

const (
	EncodingJSON Encoding = iota
	EncodingMultipart
)

func (e Encoding) String() string {
	if e == EncodingMultipart {
		return "multipart"
	}
	return "json"
}

// Payload types

// Payload is a backend-ready prediction request.
// Implemented by Record, RawJSON and Attachment.
type Payload interface {
	Encoding() Encoding
}

// Entry is one typed field of a structured request
type Entry struct {
	Name  string
	Value any
}

// Record is a structured request whose JSON object keeps entry order
type Record []Entry

func (Record) Encoding() Encoding { return EncodingJSON }

// Get returns the value stored under name
func (r Record) Get(name string) (any, bool) {
	for _, e := range r {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RawJSON is an already-encoded JSON document forwarded as-is
type RawJSON []byte

func (RawJSON) Encoding() Encoding { return EncodingJSON }

// Attachment is a single binary file sent as multipart
type Attachment struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

func (Attachment) Encoding() Encoding { return EncodingMultipart }

// Result types

// Result is a normalized prediction outcome. Exactly one variant is
// populated: Prediction/Confidence on success, Error on failure. The zero
// Result is "no result yet".
type Result struct {
	Prediction string
	Confidence float64
	Error      string
	settled    bool
}

// Success builds the success variant
func Success(prediction string, confidence float64) Result {
	return Result{Prediction: prediction, Confidence: confidence, settled: true}
}

// Failure builds the error variant
func Failure(message string) Result {
	return Result{Error: message, settled: true}
}

// IsZero reports whether the result is empty (cleared or never set)
func (r Result) IsZero() bool { return !r.settled }

// Failed reports whether the result is the error variant
func (r Result) Failed() bool { return r.settled && r.Error != "" }

func (r Result) MarshalJSON() ([]byte, error) {
	switch {
	case !r.settled:
		return []byte("{}"), nil
	case r.Error != "":
		return json.Marshal(BackendErrorResponse{Error: r.Error})
	default:
		return json.Marshal(PredictionResponse{Prediction: r.Prediction, Confidence: r.Confidence})
	}
}

func (r *Result) UnmarshalJSON(b []byte) error {
	var raw struct {
		Prediction *string  `json:"prediction"`
		Confidence *float64 `json:"confidence"`
		Error      *string  `json:"error"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch {
	case raw.Error != nil:
		*r = Failure(*raw.Error)
	case raw.Prediction != nil:
		var c float64
		if raw.Confidence != nil {
			c = *raw.Confidence
		}
		*r = Success(*raw.Prediction, c)
	default:
		*r = Result{}
	}
	return nil
}

// Wire types

// PredictionResponse is the backend success body
type PredictionResponse struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// BackendErrorResponse is the backend failure body
type BackendErrorResponse struct {
	Error string `json:"error"`
}

// Risk is the binary classification shown to the user
type Risk string

const (
	RiskNone Risk = ""
	RiskHigh Risk = "high"
	RiskLow  Risk = "low"
)

// Display is a presentable rendering of a Result
type Display struct {
	Risk       Risk   `json:"risk,omitempty"`
	Message    string `json:"message"`
	Label      string `json:"label,omitempty"`
	Confidence string `json:"confidence,omitempty"`
}

// Response types

type OptionInfo struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FieldInfo struct {
	Name     string       `json:"name"`
	Label    string       `json:"label"`
	Kind     string       `json:"kind"`
	Required bool         `json:"required"`
	Sent     bool         `json:"sent"`
	Options  []OptionInfo `json:"options,omitempty"`
}

type DomainInfo struct {
	Domain   Domain      `json:"domain"`
	Title    string      `json:"title"`
	Policy   string      `json:"policy"`
	Encoding string      `json:"encoding"`
	Fields   []FieldInfo `json:"fields"`
}

type ListDomainsResponse struct {
	Domains []DomainInfo `json:"domains"`
}

// SubmitFormResponse is returned by the server-side form endpoint
type SubmitFormResponse struct {
	Result  Result             `json:"result"`
	Display Display            `json:"display"`
	Derived map[string]float64 `json:"derived,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}
