package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/valyala/fasthttp"
)

// SummaryKey is the fasthttp user value under which FastHTTPPort stores the
// Summary of the written envelope.
const SummaryKey = "envelope.summary"

var (
	errNilPort   = errors.New("transport: nil response port")
	errNilTarget = errors.New("transport: port has no target")
)

// SummaryRecorder is implemented by http.ResponseWriter wrappers that want
// to observe envelopes written through HTTPPort.
type SummaryRecorder interface {
	RecordSummary(Summary)
}

// FastHTTPPort writes responses onto a fasthttp request context.
type FastHTTPPort struct {
	Ctx *fasthttp.RequestCtx
}

func (p FastHTTPPort) Write(resp Response) error {
	if p.Ctx == nil {
		return errNilTarget
	}
	body, err := json.Marshal(resp.Body)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	for k, v := range resp.Headers {
		p.Ctx.Response.Header.Set(k, v)
	}
	p.Ctx.Response.Header.SetContentType(resp.contentType())
	p.Ctx.SetStatusCode(resp.Status)
	p.Ctx.SetUserValue(SummaryKey, resp.Summary())
	p.Ctx.SetBody(body)
	return nil
}

// SummaryFrom returns the summary stored by FastHTTPPort, if any.
func SummaryFrom(ctx *fasthttp.RequestCtx) (Summary, bool) {
	if ctx == nil {
		return Summary{}, false
	}
	s, ok := ctx.UserValue(SummaryKey).(Summary)
	return s, ok
}

// HTTPPort writes responses onto a net/http ResponseWriter.
type HTTPPort struct {
	W http.ResponseWriter
}

func (p HTTPPort) Write(resp Response) error {
	if p.W == nil {
		return errNilTarget
	}
	body, err := json.Marshal(resp.Body)
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	header := p.W.Header()
	for k, v := range resp.Headers {
		header.Set(k, v)
	}
	header.Set("Content-Type", resp.contentType())
	if rec, ok := p.W.(SummaryRecorder); ok {
		rec.RecordSummary(resp.Summary())
	}
	p.W.WriteHeader(resp.Status)
	if _, err := p.W.Write(body); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	return nil
}
