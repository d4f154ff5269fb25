package transport

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
)

// RawKey holds the body text of a non-JSON response.
const RawKey = "raw"

const maxErrorBody = 512

// Normalize converts a response body into the single envelope shape every
// caller relies on: a decoded JSON object, or {raw: body} when the content
// type is not JSON. An empty or unparseable JSON body yields an empty object.
// A JSON document that is not an object is kept verbatim under raw.
func Normalize(contentType string, body []byte) wire.Value {
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		return rawEnvelope(body)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return wire.Object()
	}

	v, err := wire.Parse(body)
	if err != nil || v.IsNull() {
		return wire.Object()
	}
	if !v.IsObject() {
		return rawEnvelope(body)
	}
	return v
}

// IsRaw reports whether an envelope wraps a non-JSON body.
func IsRaw(v wire.Value) bool {
	return v.Len() == 1 && v.Has(RawKey)
}

func rawEnvelope(body []byte) wire.Value {
	return wire.Object(wire.M(RawKey, wire.String(string(body))))
}

// parseError converts a device error response into an *Error
func parseError(status int, contentType string, body []byte) *Error {
	e := &Error{Code: status, Message: http.StatusText(status)}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Err = ErrUnauthorized
	case http.StatusNotFound:
		e.Err = ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		e.Err = ErrDeviceUnavailable
	}

	env := Normalize(contentType, body)
	if IsRaw(env) {
		text := strings.TrimSpace(env.Path(RawKey).StringOr(""))
		if len(text) > maxErrorBody {
			text = strings.ToValidUTF8(text[:maxErrorBody], "")
		}
		if text != "" {
			e.Message = text
		}
		return e
	}

	// ISAPI answers with a ResponseStatus document, either bare or enveloped
	rs := env
	if inner, ok := env.Get("ResponseStatus"); ok {
		rs = inner
	}

	statusString := rs.Path("statusString").StringOr("")
	e.SubStatus = rs.Path("subStatusCode").StringOr("")
	errorMsg := rs.Path("errorMsg").StringOr("")

	var msg strings.Builder
	msg.WriteString(statusString)
	if e.SubStatus != "" {
		if msg.Len() > 0 {
			msg.WriteString(" ")
		}
		msg.WriteString("(" + e.SubStatus + ")")
	}
	if errorMsg != "" {
		if msg.Len() > 0 {
			msg.WriteString(": ")
		}
		msg.WriteString(errorMsg)
	}
	if msg.Len() > 0 {
		e.Message = msg.String()
	}

	return e
}
