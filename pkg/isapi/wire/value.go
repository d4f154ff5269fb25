// Package wire models the loosely typed JSON documents exchanged with ISAPI
// devices as a sealed, ordered value type with total accessors.
package wire

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is one JSON value. The zero Value is null.
//
// Values are immutable: every method that "modifies" a value returns a copy.
type Value struct {
	kind    Kind
	b       bool
	text    string // number text or string contents
	items   []Value
	members []Member
}

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value Value
}

// M builds an object member.
func M(key string, v Value) Member {
	return Member{Key: key, Value: v}
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns an integer number value.
func Int(n int) Value {
	return Value{kind: KindNumber, text: strconv.Itoa(n)}
}

// Int64 returns an integer number value.
func Int64(n int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(n, 10)}
}

// Float returns a number value. NaN and infinities have no JSON form and
// become null.
func Float(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Array returns an array holding items in order.
func Array(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindArray, items: out}
}

// Object returns an object holding members in order. A repeated key keeps its
// first position and its last value.
func Object(members ...Member) Value {
	out := make([]Member, 0, len(members))
	for _, m := range members {
		out = setMember(out, m.Key, m.Value)
	}
	return Value{kind: KindObject, members: out}
}

// Strings returns an array of string values.
func Strings(ss []string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = String(s)
	}
	return Value{kind: KindArray, items: items}
}

func setMember(members []Member, key string, v Value) []Member {
	for i := range members {
		if members[i].Key == key {
			members[i].Value = v
			return members
		}
	}
	return append(members, Member{Key: key, Value: v})
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsObject reports whether v is an object.
func (v Value) IsObject() bool { return v.kind == KindObject }

// IsArray reports whether v is an array.
func (v Value) IsArray() bool { return v.kind == KindArray }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsString returns the string held by v. Numbers are not converted.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

// AsInt returns v as an integer. Integral numbers and numeric strings convert;
// devices are inconsistent about quoting counters.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindNumber && v.kind != KindString {
		return 0, false
	}
	text := strings.TrimSpace(v.text)
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

// AsFloat returns v as a float. Numbers and numeric strings convert.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != KindNumber && v.kind != KindString {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// BoolOr returns the boolean held by v, or def.
func (v Value) BoolOr(def bool) bool {
	if b, ok := v.AsBool(); ok {
		return b
	}
	return def
}

// StringOr returns the string held by v, or def.
func (v Value) StringOr(def string) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	return def
}

// IntOr returns v as an int, or def.
func (v Value) IntOr(def int) int {
	if n, ok := v.AsInt(); ok {
		return int(n)
	}
	return def
}

// Get returns the member value stored under key. It reports false when v is
// not an object or the key is absent.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether v is an object containing key.
func (v Value) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Path walks nested objects by key and returns null as soon as a step is
// missing.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		next, ok := cur.Get(k)
		if !ok {
			return Null()
		}
		cur = next
	}
	return cur
}

// Items returns the elements of an array, or nil for any other kind.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return slices.Clone(v.items)
}

// Members returns the members of an object in order, or nil for any other
// kind.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	return slices.Clone(v.members)
}

// Len returns the number of array elements or object members.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// With returns a copy of the object v with key set to val. Calling With on a
// non-object starts from an empty object.
func (v Value) With(key string, val Value) Value {
	var members []Member
	if v.kind == KindObject {
		members = make([]Member, len(v.members), len(v.members)+1)
		copy(members, v.members)
	} else {
		members = make([]Member, 0, 1)
	}
	return Value{kind: KindObject, members: setMember(members, key, val)}
}

// Merge returns v with every member of other applied in order. Non-object
// operands contribute nothing.
func (v Value) Merge(other Value) Value {
	out := v
	if out.kind != KindObject {
		out = Object()
	}
	for _, m := range other.Members() {
		out = out.With(m.Key, m.Value)
	}
	return out
}

// Equal reports whether v and o hold the same document. Numbers compare by
// value, objects compare member-wise in order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.text == o.text
	case KindNumber:
		if v.text == o.text {
			return true
		}
		a, errA := strconv.ParseFloat(v.text, 64)
		b, errB := strconv.ParseFloat(o.text, 64)
		return errA == nil && errB == nil && a == b
	case KindArray:
		return slices.EqualFunc(v.items, o.items, Value.Equal)
	case KindObject:
		return slices.EqualFunc(v.members, o.members, func(a, b Member) bool {
			return a.Key == b.Key && a.Value.Equal(b.Value)
		})
	}
	return false
}

// Interface converts v to plain Go values: nil, bool, json.Number, string,
// []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.text)
	case KindString:
		return v.text
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.members))
		for _, m := range v.members {
			out[m.Key] = m.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders v as compact JSON.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "null"
	}
	return string(b)
}
