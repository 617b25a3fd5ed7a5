package transport

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/envelope/domain"
)

func marshal(t *testing.T, v interface{}) string {
	t.Helper()
	out, err := json.Marshal(v)
	require.NoError(t, err)
	return string(out)
}

func TestConstructSuccessWrapsPayload(t *testing.T) {
	resp := Construct(NewSuccess(map[string]interface{}{"id": 1, "name": "a"}))

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"success":true,"result":{"id":1,"name":"a"}}`, marshal(t, resp.Body))
}

func TestConstructSuccessWithNilPayloadKeepsResult(t *testing.T) {
	resp := Construct(NewSuccess(nil))

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, `{"success":true,"result":null}`, marshal(t, resp.Body))
}

func TestConstructFailureMergesFieldsAndKeepsTransportOK(t *testing.T) {
	outcome, err := FromPayload(map[string]interface{}{"message": "not found"}, false, http.StatusNotFound)
	require.NoError(t, err)

	resp := Construct(outcome)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"success":false,"error":{"code":404,"message":"not found"}}`, marshal(t, resp.Body))
	assert.NotContains(t, marshal(t, resp.Body), `"result"`)
}

func TestConstructNeverUsesLogicalCodeAsTransportStatus(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError, 0} {
		resp := Construct(NewFailure(code, nil))
		assert.Equal(t, TransportStatus, resp.Status, "code %d", code)
		assert.Equal(t, code, resp.Body.Error.Code)
	}
}

func TestFailurePayloadCodeOverridesInjectedCode(t *testing.T) {
	body := marshal(t, Wrap(NewFailure(http.StatusBadRequest, map[string]interface{}{"code": "E_CUSTOM"})))
	assert.JSONEq(t, `{"success":false,"error":{"code":"E_CUSTOM"}}`, body)
}

func TestEnvelopeMarshalIsStable(t *testing.T) {
	env := Wrap(NewFailure(422, map[string]interface{}{
		"zeta":  1,
		"alpha": []string{"x"},
		"mid":   map[string]interface{}{"b": 2, "a": 1},
	}))

	first := marshal(t, env)
	second := marshal(t, env)
	assert.Equal(t, first, second)
	assert.Equal(t, first, env.String())
}

func TestFromPayloadSuccessAcceptsAnything(t *testing.T) {
	for _, payload := range []interface{}{nil, 42, "text", []int{1, 2}, struct{ A int }{A: 1}} {
		outcome, err := FromPayload(payload, true, DefaultFailureCode)
		require.NoError(t, err)
		assert.Equal(t, Success{Payload: payload}, outcome)
	}
}

type labels map[string]int

func TestFromPayloadFailureAcceptsStringKeyedMaps(t *testing.T) {
	tests := []struct {
		name    string
		payload interface{}
		want    map[string]interface{}
	}{
		{name: "generic", payload: map[string]interface{}{"message": "x"}, want: map[string]interface{}{"message": "x"}},
		{name: "strings", payload: map[string]string{"field": "email"}, want: map[string]interface{}{"field": "email"}},
		{name: "named map type", payload: labels{"retries": 3}, want: map[string]interface{}{"retries": 3}},
		{name: "empty", payload: map[string]interface{}{}, want: map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := FromPayload(tt.payload, false, DefaultFailureCode)
			require.NoError(t, err)

			failure, ok := outcome.(Failure)
			require.True(t, ok)
			assert.Equal(t, DefaultFailureCode, failure.Code)
			assert.Equal(t, tt.want, failure.Fields)
		})
	}
}

func TestFromPayloadFailureCopiesFields(t *testing.T) {
	payload := map[string]interface{}{"message": "before"}
	outcome, err := FromPayload(payload, false, 409)
	require.NoError(t, err)

	payload["message"] = "after"
	assert.Equal(t, "before", outcome.(Failure).Fields["message"])
}

func TestFromPayloadFailureRejectsNonMappings(t *testing.T) {
	for _, payload := range []interface{}{nil, 1, "text", []string{"a"}, map[int]string{1: "a"}} {
		_, err := FromPayload(payload, false, DefaultFailureCode)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrPayloadNotMapping)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	}
}

func TestWrapNilOutcomeIsEmptySuccess(t *testing.T) {
	assert.Equal(t, `{"success":true,"result":null}`, marshal(t, Wrap(nil)))
}

func TestEnvelopeDecode(t *testing.T) {
	var ok Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"success":true,"result":{"id":1}}`), &ok))
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)
	assert.Equal(t, map[string]interface{}{"id": json.Number("1")}, ok.Result)

	var failed Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"success":false,"error":{"code":404,"message":"not found"}}`), &failed))
	assert.False(t, failed.Success)
	require.NotNil(t, failed.Error)
	assert.Equal(t, 404, failed.Error.Code)
	assert.Equal(t, map[string]interface{}{"message": "not found"}, failed.Error.Fields)

	var overridden ErrorBody
	require.NoError(t, json.Unmarshal([]byte(`{"code":"E_CUSTOM"}`), &overridden))
	assert.Zero(t, overridden.Code)
	assert.Equal(t, "E_CUSTOM", overridden.Fields["code"])
}

func TestEnvelopeDecodeKeepsLargeIntegers(t *testing.T) {
	const body = `{"success":true,"result":{"id":9007199254740993}}`

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	assert.Equal(t, map[string]interface{}{"id": json.Number("9007199254740993")}, env.Result)
	assert.Equal(t, body, marshal(t, env))

	var failed ErrorBody
	require.NoError(t, json.Unmarshal([]byte(`{"code":409,"order_id":12345678901234567890}`), &failed))
	assert.Equal(t, 409, failed.Code)
	assert.Equal(t, json.Number("12345678901234567890"), failed.Fields["order_id"])
}

func TestDecodeValue(t *testing.T) {
	v, err := DecodeValue([]byte(` [1, "a", null] `))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{json.Number("1"), "a", nil}, v)

	_, err = DecodeValue([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)

	_, err = DecodeValue([]byte(`{"a":1} x`))
	assert.Error(t, err)

	_, err = DecodeValue([]byte(`{"a":`))
	assert.Error(t, err)
}
