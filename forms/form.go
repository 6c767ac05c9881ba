// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package forms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/krle1978/health-predictor-ai/models"
	"github.com/krle1978/health-predictor-ai/validate"
)

var (
	ErrSubmitting   = errors.New("submission already in flight")
	ErrUnknownField = errors.New("unknown field")
	ErrNotFileField = errors.New("field does not accept files")
)

// Number is a parsed numeric input. Valid is false when nothing was entered
// or the input did not parse.
type Number struct {
	Value float64
	Valid bool
}

// ParseNumber parses a decimal input. ok is false for non-empty text that is
// not a finite number; empty text yields an invalid Number with ok true.
func ParseNumber(raw string) (n Number, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Number{}, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}, false
	}
	return Number{Value: v, Valid: true}, true
}

// Sender dispatches a payload; gateway.Gateway satisfies it
type Sender interface {
	Send(ctx context.Context, domain models.Domain, payload models.Payload) models.Result
}

// Form owns one domain's raw input and the outcome of its last submission
type Form struct {
	spec *Spec

	mu     sync.Mutex
	values map[string]string
	files  map[string]models.Attachment
	result models.Result

	submitting atomic.Bool
}

// New mounts an empty form for spec
func New(spec *Spec) *Form {
	return &Form{
		spec:   spec,
		values: make(map[string]string, len(spec.Fields)),
		files:  make(map[string]models.Attachment),
	}
}

func (f *Form) Spec() *Spec { return f.spec }

// UpdateField replaces the raw value of name. No validation happens here.
func (f *Form) UpdateField(name, raw string) error {
	if _, ok := f.spec.Field(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	f.mu.Lock()
	f.values[name] = raw
	f.mu.Unlock()
	return nil
}

// SetFile attaches binary content to a file field
func (f *Form) SetFile(name string, a models.Attachment) error {
	field, ok := f.spec.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if field.Kind != KindFile {
		return fmt.Errorf("%w: %s", ErrNotFileField, name)
	}
	a.Field = name
	f.mu.Lock()
	f.files[name] = a
	f.values[name] = a.Filename
	f.mu.Unlock()
	return nil
}

// Value returns the raw input of name
func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Values returns a copy of the raw form state
func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Derived recomputes every derived value from the current state
func (f *Form) Derived() map[string]Number {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.derivedLocked()
}

func (f *Form) derivedLocked() map[string]Number {
	out := make(map[string]Number, len(f.spec.Derived))
	for _, d := range f.spec.Derived {
		v := d.Compute(f.numberLocked)
		out[d.Name] = Number{Value: v, Valid: v != 0}
	}
	return out
}

func (f *Form) numberLocked(name string) Number {
	n, _ := ParseNumber(f.values[name])
	return n
}

// BuildPayload converts the raw state into the shape the backend expects,
// applying the spec's validation policy.
func (f *Form) BuildPayload() (models.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.spec.Encoding() == models.EncodingMultipart {
		return f.attachmentLocked()
	}
	if f.spec.Policy == PolicyStrict {
		return f.strictLocked()
	}
	return f.permissiveLocked(), nil
}

func (f *Form) attachmentLocked() (models.Payload, error) {
	name := f.spec.Payload[0]
	a, ok := f.files[name]
	if err := validate.Fields([]validate.Check{{Name: name, Present: ok && len(a.Data) > 0}}); err != nil {
		return nil, err
	}
	return a, nil
}

func (f *Form) strictLocked() (models.Payload, error) {
	derived := f.derivedLocked()
	checks := make([]validate.Check, 0, len(f.spec.Payload))
	for _, name := range f.spec.Payload {
		if n, ok := derived[name]; ok {
			checks = append(checks, validate.Check{Name: name, Numeric: true, Present: n.Valid, Value: n.Value})
			continue
		}
		field, _ := f.spec.Field(name)
		raw := strings.TrimSpace(f.values[name])
		if raw == "" && !field.Required {
			continue
		}
		c := validate.Check{Name: name, Present: raw != ""}
		if field.Kind == KindNumber {
			c.Numeric = true
			n, ok := ParseNumber(raw)
			if ok {
				c.Value = n.Value
			} else {
				c.Value = math.NaN()
			}
		}
		checks = append(checks, c)
	}
	if err := validate.Fields(checks); err != nil {
		return nil, err
	}

	rec := make(models.Record, 0, len(checks))
	for _, c := range checks {
		if c.Numeric {
			rec = append(rec, models.Entry{Name: c.Name, Value: c.Value})
		} else {
			rec = append(rec, models.Entry{Name: c.Name, Value: strings.TrimSpace(f.values[c.Name])})
		}
	}
	return rec, nil
}

func (f *Form) permissiveLocked() models.Payload {
	derived := f.derivedLocked()
	rec := make(models.Record, 0, len(f.spec.Payload))
	for _, name := range f.spec.Payload {
		if n, ok := derived[name]; ok {
			if n.Valid {
				rec = append(rec, models.Entry{Name: name, Value: n.Value})
			} else {
				rec = append(rec, models.Entry{Name: name, Value: ""})
			}
			continue
		}
		raw := f.values[name]
		field, _ := f.spec.Field(name)
		if field.Kind == KindNumber {
			if n, ok := ParseNumber(raw); ok && n.Valid {
				rec = append(rec, models.Entry{Name: name, Value: n.Value})
				continue
			}
		}
		rec = append(rec, models.Entry{Name: name, Value: raw})
	}
	return rec
}

// Submit builds the payload and dispatches it once. While a submission is in
// flight further calls fail with ErrSubmitting and send nothing. Validation
// failures are stored as the error variant and returned without a request.
func (f *Form) Submit(ctx context.Context, s Sender) (models.Result, error) {
	if !f.submitting.CompareAndSwap(false, true) {
		return models.Result{}, ErrSubmitting
	}
	defer f.submitting.Store(false)

	f.setResult(models.Result{})

	payload, err := f.BuildPayload()
	if err != nil {
		res := models.Failure(err.Error())
		f.setResult(res)
		return res, err
	}

	res := s.Send(ctx, f.spec.Domain, payload)
	f.setResult(res)
	return res, nil
}

// Submitting reports whether a submission is in flight
func (f *Form) Submitting() bool { return f.submitting.Load() }

// Result returns the outcome of the last submission
func (f *Form) Result() models.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

func (f *Form) setResult(r models.Result) {
	f.mu.Lock()
	f.result = r
	f.mu.Unlock()
}
