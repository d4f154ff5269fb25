package models

import "github.com/lei/hikvision-gateway/pkg/isapi/wire"

// Card is one credential card bound to a person (CardInfo).
//
// Enabled is decoded from the device but has no place in the write payload.
type Card struct {
	EmployeeNo string  `json:"employeeNo"`
	CardNo     string  `json:"cardNo"`
	CardType   *string `json:"cardType,omitempty"`
	Enabled    bool    `json:"enabled"`
}

// ToWire returns the {CardInfo: {...}} document for c.
func (c Card) ToWire() wire.Value {
	info := []wire.Member{
		wire.M("employeeNo", wire.String(c.EmployeeNo)),
		wire.M("cardNo", wire.String(c.CardNo)),
	}
	info = putString(info, "cardType", c.CardType)
	return wire.Object(wire.M("CardInfo", wire.Object(info...)))
}

// CardFromWire decodes a card from either {CardInfo: {...}} or the bare inner
// object.
func CardFromWire(v wire.Value) Card {
	info := unwrap(v, "CardInfo")
	return Card{
		EmployeeNo: stringOr(info.Path("employeeNo"), ""),
		CardNo:     stringOr(info.Path("cardNo"), ""),
		CardType:   optString(info.Path("cardType")),
		Enabled:    info.Path("enabled").BoolOr(true),
	}
}
