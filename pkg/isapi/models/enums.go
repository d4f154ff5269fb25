package models

// UserType classifies a person enrolled on the device.
type UserType string

const (
	UserTypeNormal    UserType = "normal"
	UserTypeVisitor   UserType = "visitor"
	UserTypeBlocklist UserType = "blocklist"
)

// Label returns a human readable name. Values the device reports that are not
// known here are returned as-is.
func (t UserType) Label() string {
	switch t {
	case UserTypeNormal:
		return "Normal User"
	case UserTypeVisitor:
		return "Visitor"
	case UserTypeBlocklist:
		return "Blocklist"
	default:
		return string(t)
	}
}

// Known reports whether t is one of the documented user types.
func (t UserType) Known() bool {
	switch t {
	case UserTypeNormal, UserTypeVisitor, UserTypeBlocklist:
		return true
	}
	return false
}

// EventType is an access-control event code in its hexadecimal text form.
type EventType string

const (
	EventAccessGranted  EventType = "0x01"
	EventAccessDenied   EventType = "0x02"
	EventFaceRecognized EventType = "0x4b"
	EventCardSwiped     EventType = "0x05"
)

// Description returns a human readable summary of the event code.
func (t EventType) Description() string {
	switch t {
	case EventAccessGranted:
		return "Access Granted"
	case EventAccessDenied:
		return "Access Denied"
	case EventFaceRecognized:
		return "Face Recognition Completed"
	case EventCardSwiped:
		return "Card Swiped"
	default:
		return "Unknown Event"
	}
}
