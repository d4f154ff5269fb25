package models

import "github.com/lei/hikvision-gateway/pkg/isapi/wire"

const (
	DefaultFaceLibID   = 1
	DefaultFaceLibType = "blackFD"
)

// Face is a face picture bound to a person. FaceData is an opaque encoded
// image and is never inspected.
type Face struct {
	EmployeeNo  string `json:"employeeNo"`
	FaceData    string `json:"faceData"`
	FaceLibID   int    `json:"faceLibId"`
	FaceLibType string `json:"faceLibType"`
}

// NewFace returns a face in the default library.
func NewFace(employeeNo, faceData string) Face {
	return Face{
		EmployeeNo:  employeeNo,
		FaceData:    faceData,
		FaceLibID:   DefaultFaceLibID,
		FaceLibType: DefaultFaceLibType,
	}
}

// ToWire returns {faceInfo: {employeeNo, faceLibType}, faceData}. The library
// id is addressed by the endpoint path, not the body.
func (f Face) ToWire() wire.Value {
	info := []wire.Member{wire.M("employeeNo", wire.String(f.EmployeeNo))}
	if f.FaceLibType != "" {
		info = append(info, wire.M("faceLibType", wire.String(f.FaceLibType)))
	}
	return wire.Object(
		wire.M("faceInfo", wire.Object(info...)),
		wire.M("faceData", wire.String(f.FaceData)),
	)
}

// FaceFromWire decodes a face. faceData is read from the outer document;
// the metadata from faceInfo when present, else from the outer document.
func FaceFromWire(v wire.Value) Face {
	info := unwrap(v, "faceInfo")
	return Face{
		EmployeeNo:  stringOr(info.Path("employeeNo"), ""),
		FaceData:    stringOr(v.Path("faceData"), ""),
		FaceLibID:   info.Path("faceLibId").IntOr(DefaultFaceLibID),
		FaceLibType: stringOr(info.Path("faceLibType"), DefaultFaceLibType),
	}
}
