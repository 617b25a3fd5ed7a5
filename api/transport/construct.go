package transport

import (
	"encoding/json"
	"net/http"
	"strings"
)

const (
	// TransportStatus is sent for every envelope; the logical code only
	// lives in error.code.
	TransportStatus = http.StatusOK

	DefaultContentType = "application/json"
)

// Response is what a host framework receives: the envelope plus the
// pass-through transport settings.
type Response struct {
	Body        Envelope
	Status      int
	Headers     map[string]string
	ContentType string
	Exception   bool
}

// ResponsePort is implemented by host framework adapters. Serialization is
// the port's job.
type ResponsePort interface {
	Write(resp Response) error
}

// Option adjusts the pass-through part of a Response.
type Option func(*Response)

// WithHeaders replaces the response headers with a copy of headers.
func WithHeaders(headers map[string]string) Option {
	return func(r *Response) {
		if headers == nil {
			r.Headers = nil
			return
		}
		r.Headers = make(map[string]string, len(headers))
		for k, v := range headers {
			r.Headers[k] = v
		}
	}
}

// WithHeader sets a single header.
func WithHeader(key, value string) Option {
	return func(r *Response) {
		if r.Headers == nil {
			r.Headers = make(map[string]string, 1)
		}
		r.Headers[key] = value
	}
}

func WithContentType(contentType string) Option {
	return func(r *Response) {
		r.ContentType = contentType
	}
}

// WithException marks the response as produced while handling an exception.
// What that means is up to the port.
func WithException() Option {
	return func(r *Response) {
		r.Exception = true
	}
}

// Construct wraps the outcome and fixes the transport status to
// TransportStatus, whatever the outcome's code is.
func Construct(outcome Outcome, opts ...Option) Response {
	resp := Response{
		Body:   Wrap(outcome),
		Status: TransportStatus,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&resp)
		}
	}
	return resp
}

// Send constructs the response and delegates it to the port.
func Send(port ResponsePort, outcome Outcome, opts ...Option) error {
	if port == nil {
		return errNilPort
	}
	return port.Write(Construct(outcome, opts...))
}

// Summary is the part of a written response middleware cares about.
type Summary struct {
	Success   bool
	Code      int
	Exception bool
}

// Summary reports the logical outcome of the response. Code is the one on
// the wire: an integer "code" field overrides the injected code; a
// non-integer one leaves the injected code in place.
func (r Response) Summary() Summary {
	s := Summary{Success: r.Body.Success, Exception: r.Exception}
	if r.Body.Success || r.Body.Error == nil {
		return s
	}
	s.Code = r.Body.Error.Code
	if override, ok := intCode(r.Body.Error.Fields["code"]); ok {
		s.Code = override
	}
	return s
}

func intCode(v interface{}) (int, bool) {
	switch c := v.(type) {
	case int:
		return c, true
	case int32:
		return int(c), true
	case int64:
		return int(c), true
	case json.Number:
		n, err := c.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func (r Response) contentType() string {
	if r.ContentType != "" {
		return r.ContentType
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, "Content-Type") && v != "" {
			return v
		}
	}
	return DefaultContentType
}
