package models

import "github.com/lei/hikvision-gateway/pkg/isapi/wire"

// Person is one user record (UserInfo). Pointer fields and the zero
// BelongGroup are unset and never written to the wire. An empty UserType is
// written as normal. A nil and an empty RightPlan are the same: neither is
// written, and decoding yields nil.
type Person struct {
	EmployeeNo     string       `json:"employeeNo"`
	Name           string       `json:"name"`
	UserType       UserType     `json:"userType"`
	ValidEnabled   bool         `json:"validEnabled"`
	BeginTime      *string      `json:"beginTime,omitempty"`
	EndTime        *string      `json:"endTime,omitempty"`
	DoorRight      *string      `json:"doorRight,omitempty"`
	RightPlan      []wire.Value `json:"rightPlan,omitempty"`
	Email          *string      `json:"email,omitempty"`
	PhoneNumber    *string      `json:"phoneNumber,omitempty"`
	OrganizationID *int         `json:"organizationId,omitempty"`
	BelongGroup    wire.Value   `json:"belongGroup"`
}

// ToWire returns the {UserInfo: {...}} document for p.
func (p Person) ToWire() wire.Value {
	valid := []wire.Member{wire.M("enable", wire.Bool(p.ValidEnabled))}
	valid = putString(valid, "beginTime", p.BeginTime)
	valid = putString(valid, "endTime", p.EndTime)

	userType := p.UserType
	if userType == "" {
		userType = UserTypeNormal
	}

	info := []wire.Member{
		wire.M("employeeNo", wire.String(p.EmployeeNo)),
		wire.M("name", wire.String(p.Name)),
		wire.M("userType", wire.String(string(userType))),
		wire.M("Valid", wire.Object(valid...)),
	}
	info = putString(info, "doorRight", p.DoorRight)
	if len(p.RightPlan) > 0 {
		info = append(info, wire.M("RightPlan", wire.Array(p.RightPlan...)))
	}
	info = putString(info, "email", p.Email)
	info = putString(info, "phoneNumber", p.PhoneNumber)
	if p.OrganizationID != nil {
		info = append(info, wire.M("organizationId", wire.Int(*p.OrganizationID)))
	}
	if !p.BelongGroup.IsNull() {
		info = append(info, wire.M("belongGroup", p.BelongGroup))
	}

	return wire.Object(wire.M("UserInfo", wire.Object(info...)))
}

// PersonFromWire decodes a person from either {UserInfo: {...}} or the bare
// inner object.
func PersonFromWire(v wire.Value) Person {
	info := unwrap(v, "UserInfo")
	valid := info.Path("Valid")

	userType := UserType(stringOr(info.Path("userType"), ""))
	if userType == "" {
		userType = UserTypeNormal
	}

	p := Person{
		EmployeeNo:     stringOr(info.Path("employeeNo"), ""),
		Name:           stringOr(info.Path("name"), ""),
		UserType:       userType,
		ValidEnabled:   valid.Path("enable").BoolOr(true),
		BeginTime:      optString(valid.Path("beginTime")),
		EndTime:        optString(valid.Path("endTime")),
		DoorRight:      optString(info.Path("doorRight")),
		Email:          optString(info.Path("email")),
		PhoneNumber:    optString(info.Path("phoneNumber")),
		OrganizationID: optInt(info.Path("organizationId")),
		BelongGroup:    info.Path("belongGroup"),
	}
	if plan := info.Path("RightPlan"); plan.Len() > 0 {
		p.RightPlan = plan.Items()
	}
	return p
}
