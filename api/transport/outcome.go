package transport

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/fastygo/envelope/domain"
)

// DefaultFailureCode is the logical code used when a caller does not pick one.
const DefaultFailureCode = http.StatusBadRequest

// Outcome is either Success or Failure.
type Outcome interface {
	envelope() Envelope
}

// Success carries any payload verbatim into the result field.
type Success struct {
	Payload interface{}
}

// Failure carries the logical error code and the fields merged next to it.
type Failure struct {
	Code   int
	Fields map[string]interface{}
}

func (s Success) envelope() Envelope {
	return Envelope{Success: true, Result: s.Payload}
}

func (f Failure) envelope() Envelope {
	return Envelope{Success: false, Error: &ErrorBody{Code: f.Code, Fields: f.Fields}}
}

// NewSuccess returns a success outcome.
func NewSuccess(payload interface{}) Success {
	return Success{Payload: payload}
}

// NewFailure returns a failure outcome.
func NewFailure(code int, fields map[string]interface{}) Failure {
	return Failure{Code: code, Fields: fields}
}

// Wrap reshapes an outcome into its envelope.
func Wrap(outcome Outcome) Envelope {
	if outcome == nil {
		return Success{}.envelope()
	}
	return outcome.envelope()
}

// FromPayload builds an outcome from the loose (payload, success, status)
// triple. On failure the payload must be a map keyed by strings; its entries
// are copied into the error fields.
func FromPayload(payload interface{}, success bool, status int) (Outcome, error) {
	if success {
		return Success{Payload: payload}, nil
	}
	fields, err := asMapping(payload)
	if err != nil {
		return nil, err
	}
	return Failure{Code: status, Fields: fields}, nil
}

func asMapping(payload interface{}) (map[string]interface{}, error) {
	switch m := payload.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	case map[string]string:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	}

	v := reflect.ValueOf(payload)
	if !v.IsValid() || v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("%w: got %T", domain.ErrPayloadNotMapping, payload)
	}

	out := make(map[string]interface{}, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, nil
}
