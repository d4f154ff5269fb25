package models

import "github.com/lei/hikvision-gateway/pkg/isapi/wire"

// AccessEvent is one entry of an AcsEvent search result.
type AccessEvent struct {
	Major      int        `json:"major"`
	Minor      int        `json:"minor"`
	Time       string     `json:"time"`
	EmployeeNo string     `json:"employeeNo,omitempty"`
	Name       string     `json:"name,omitempty"`
	CardNo     string     `json:"cardNo,omitempty"`
	DoorNo     int        `json:"doorNo,omitempty"`
	SerialNo   int        `json:"serialNo,omitempty"`
	VerifyMode string     `json:"verifyMode,omitempty"`
	PictureURL string     `json:"pictureURL,omitempty"`
	UserType   UserType   `json:"userType,omitempty"`
	Raw        wire.Value `json:"raw"`
}

// ForPerson reports whether the event carries a person identifier.
func (e AccessEvent) ForPerson() bool {
	return e.EmployeeNo != ""
}

// AccessEventFromWire decodes one InfoList entry. Firmware reports the
// employee number as employeeNoString, or employeeNo on older releases.
func AccessEventFromWire(v wire.Value) AccessEvent {
	e := AccessEvent{
		Major:      v.Path("major").IntOr(0),
		Minor:      v.Path("minor").IntOr(0),
		Time:       stringOr(v.Path("time"), ""),
		Name:       stringOr(v.Path("name"), ""),
		CardNo:     stringOr(v.Path("cardNo"), ""),
		DoorNo:     v.Path("doorNo").IntOr(0),
		SerialNo:   v.Path("serialNo").IntOr(0),
		VerifyMode: stringOr(v.Path("currentVerifyMode"), ""),
		PictureURL: stringOr(v.Path("pictureURL"), ""),
		UserType:   UserType(stringOr(v.Path("userType"), "")),
		Raw:        v,
	}

	for _, key := range []string{"employeeNoString", "employeeNo"} {
		if s := optString(v.Path(key)); s != nil && *s != "" {
			e.EmployeeNo = *s
			break
		}
	}
	return e
}

// FaceMatch is one entry of a face library search result.
type FaceMatch struct {
	FPID    string     `json:"fpid"`
	FaceURL string     `json:"faceURL,omitempty"`
	Name    string     `json:"name,omitempty"`
	Raw     wire.Value `json:"raw"`
}

// FaceMatchFromWire decodes one MatchList entry.
func FaceMatchFromWire(v wire.Value) FaceMatch {
	return FaceMatch{
		FPID:    stringOr(v.Path("FPID"), ""),
		FaceURL: stringOr(v.Path("faceURL"), ""),
		Name:    stringOr(v.Path("name"), ""),
		Raw:     v,
	}
}

// DeviceInfo describes the device hardware and firmware.
type DeviceInfo struct {
	DeviceName      string `json:"deviceName"`
	DeviceID        string `json:"deviceId"`
	Model           string `json:"model"`
	SerialNumber    string `json:"serialNumber"`
	MACAddress      string `json:"macAddress"`
	FirmwareVersion string `json:"firmwareVersion"`
	FirmwareDate    string `json:"firmwareReleasedDate"`
	DeviceType      string `json:"deviceType"`
}

// DeviceInfoFromWire decodes either {DeviceInfo: {...}} or the bare object.
func DeviceInfoFromWire(v wire.Value) DeviceInfo {
	info := unwrap(v, "DeviceInfo")
	return DeviceInfo{
		DeviceName:      stringOr(info.Path("deviceName"), ""),
		DeviceID:        stringOr(info.Path("deviceID"), ""),
		Model:           stringOr(info.Path("model"), ""),
		SerialNumber:    stringOr(info.Path("serialNumber"), ""),
		MACAddress:      stringOr(info.Path("macAddress"), ""),
		FirmwareVersion: stringOr(info.Path("firmwareVersion"), ""),
		FirmwareDate:    stringOr(info.Path("firmwareReleasedDate"), ""),
		DeviceType:      stringOr(info.Path("deviceType"), ""),
	}
}

// ResponseStatus is the acknowledgement most mutating endpoints return.
type ResponseStatus struct {
	RequestURL    string `json:"requestURL,omitempty"`
	StatusCode    int    `json:"statusCode"`
	StatusString  string `json:"statusString"`
	SubStatusCode string `json:"subStatusCode"`
	ErrorCode     int    `json:"errorCode,omitempty"`
	ErrorMsg      string `json:"errorMsg,omitempty"`
}

// ResponseStatusFromWire decodes either {ResponseStatus: {...}} or the bare
// object.
func ResponseStatusFromWire(v wire.Value) ResponseStatus {
	rs := unwrap(v, "ResponseStatus")
	return ResponseStatus{
		RequestURL:    stringOr(rs.Path("requestURL"), ""),
		StatusCode:    rs.Path("statusCode").IntOr(0),
		StatusString:  stringOr(rs.Path("statusString"), ""),
		SubStatusCode: stringOr(rs.Path("subStatusCode"), ""),
		ErrorCode:     rs.Path("errorCode").IntOr(0),
		ErrorMsg:      stringOr(rs.Path("errorMsg"), ""),
	}
}

// OK reports whether the device acknowledged the request.
func (s ResponseStatus) OK() bool {
	return s.StatusCode == 1 || s.StatusString == "OK"
}
