package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var errTrailingData = errors.New("transport: unexpected data after JSON value")

// Envelope is the standard API response wrapper. Exactly one of Result or
// Error reaches the wire, selected by Success.
type Envelope struct {
	Success bool
	Result  interface{}
	Error   *ErrorBody
}

// ErrorBody is the failure half of the envelope. Fields are merged flat next
// to code; a field named "code" replaces the injected one.
type ErrorBody struct {
	Code   int
	Fields map[string]interface{}
}

type successWire struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result"`
}

type failureWire struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Success {
		return json.Marshal(successWire{Success: true, Result: e.Result})
	}
	var body ErrorBody
	if e.Error != nil {
		body = *e.Error
	}
	return json.Marshal(failureWire{Success: false, Error: body})
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	var wire struct {
		Success bool            `json:"success"`
		Result  json.RawMessage `json:"result"`
		Error   *ErrorBody      `json:"error"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*e = Envelope{Success: wire.Success}
	if !wire.Success {
		e.Error = wire.Error
		return nil
	}
	if len(wire.Result) > 0 {
		result, err := DecodeValue(wire.Result)
		if err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
		e.Result = result
	}
	return nil
}

func (b ErrorBody) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(b.Fields)+1)
	out["code"] = b.Code
	for k, v := range b.Fields {
		out[k] = v
	}
	return json.Marshal(out)
}

func (b *ErrorBody) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = ErrorBody{}
	for k, v := range raw {
		if k == "code" {
			// a non-integer code came from a payload override; keep it as a field
			if err := json.Unmarshal(v, &b.Code); err == nil {
				continue
			}
		}
		value, err := DecodeValue(v)
		if err != nil {
			return fmt.Errorf("decode error field %q: %w", k, err)
		}
		if b.Fields == nil {
			b.Fields = make(map[string]interface{}, len(raw))
		}
		b.Fields[k] = value
	}
	return nil
}

// DecodeValue decodes a single JSON value with numbers kept as json.Number,
// so integers beyond float64 precision survive a re-encode unchanged.
func DecodeValue(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return value, nil
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
