package services

import (
	"math"

	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
)

const (
	// MaxPageSize is the largest result window the device accepts.
	MaxPageSize = 30
	// DefaultPageSize is used when a page size is not set.
	DefaultPageSize = MaxPageSize
	// maxPosition bounds searchResultPosition to the device's 32-bit range.
	maxPosition = math.MaxInt32
)

// Page is a zero-based pagination cursor.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"pageSize"`
}

// FirstPage returns page 0 of the default size.
func FirstPage() Page {
	return Page{Size: DefaultPageSize}
}

// Normalize clamps the page to what the device accepts. A negative number
// becomes 0 and an unset size the default. An oversized size becomes the
// maximum, and a number whose offset would pass the largest position is
// lowered to the last page that fits.
func (p Page) Normalize() Page {
	if p.Number < 0 {
		p.Number = 0
	}
	switch {
	case p.Size <= 0:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}
	if last := maxPosition / p.Size; p.Number > last {
		p.Number = last
	}
	return p
}

// Position is the wire offset of the page's first result.
func (p Page) Position() int {
	n := p.Normalize()
	return n.Number * n.Size
}

// Limit is the wire result window.
func (p Page) Limit() int {
	return p.Normalize().Size
}

// searchCond returns the session token and result window every search carries.
func (b base) searchCond(page Page) []wire.Member {
	return []wire.Member{
		wire.M("searchID", wire.String(b.newSearchID())),
		wire.M("searchResultPosition", wire.Int(page.Position())),
		wire.M("maxResults", wire.Int(page.Limit())),
	}
}

// searchEnvelope builds {condKey: {searchID, searchResultPosition, maxResults,
// filters...}}.
func (b base) searchEnvelope(condKey string, page Page, filters ...wire.Member) wire.Value {
	cond := append(b.searchCond(page), filters...)
	return wire.Object(wire.M(condKey, wire.Object(cond...)))
}

// employeeNoList builds [{employeeNo: id}, ...].
func employeeNoList(ids []string) wire.Value {
	items := make([]wire.Value, len(ids))
	for i, id := range ids {
		items[i] = wire.Object(wire.M("employeeNo", wire.String(id)))
	}
	return wire.Array(items...)
}

// deleteEnvelope builds {condKey: {extra..., EmployeeNoList: [...]}}.
func deleteEnvelope(condKey string, ids []string, extra ...wire.Member) wire.Value {
	cond := append(append([]wire.Member(nil), extra...), wire.M("EmployeeNoList", employeeNoList(ids)))
	return wire.Object(wire.M(condKey, wire.Object(cond...)))
}

// deleteAllEnvelope builds {condKey: {mode: "all"}}.
func deleteAllEnvelope(condKey string) wire.Value {
	return wire.Object(wire.M(condKey, wire.Object(wire.M("mode", wire.String("all")))))
}

// decodeList decodes the result list at path. A missing list decodes to an
// empty slice and a lone object to a single entry, as some firmware
// collapses one-element lists.
func decodeList[T any](v wire.Value, decode func(wire.Value) T, path ...string) []T {
	list := v.Path(path...)

	var items []wire.Value
	switch list.Kind() {
	case wire.KindArray:
		items = list.Items()
	case wire.KindObject:
		items = []wire.Value{list}
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, decode(item))
	}
	return out
}
