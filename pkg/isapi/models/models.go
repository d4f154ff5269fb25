// Package models holds the value objects exchanged with an ISAPI device and
// their mapping to and from the device's nested wire shapes.
//
// Decoding is total: a missing or mistyped field decodes to the type's
// default instead of failing.
package models

import "github.com/lei/hikvision-gateway/pkg/isapi/wire"

// Ptr returns a pointer to v, for optional record fields.
func Ptr[T any](v T) *T {
	return &v
}

// unwrap returns the payload stored under key, or v itself when the document
// is not enveloped.
func unwrap(v wire.Value, key string) wire.Value {
	if inner, ok := v.Get(key); ok && !inner.IsNull() {
		return inner
	}
	return v
}

// optString decodes an optional textual field. Numbers keep their literal
// text since firmware quotes identifiers inconsistently.
func optString(v wire.Value) *string {
	switch v.Kind() {
	case wire.KindString:
		s, _ := v.AsString()
		return &s
	case wire.KindNumber:
		s := v.String()
		return &s
	default:
		return nil
	}
}

// stringOr decodes a textual field, accepting numbers, or returns def.
func stringOr(v wire.Value, def string) string {
	if s := optString(v); s != nil {
		return *s
	}
	return def
}

func optInt(v wire.Value) *int {
	n, ok := v.AsInt()
	if !ok {
		return nil
	}
	i := int(n)
	return &i
}

// putString appends key when s is set.
func putString(members []wire.Member, key string, s *string) []wire.Member {
	if s == nil {
		return members
	}
	return append(members, wire.M(key, wire.String(*s)))
}
