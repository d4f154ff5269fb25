package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lei/hikvision-gateway/pkg/isapi/models"
	"github.com/lei/hikvision-gateway/pkg/isapi/transport"
	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
)

const (
	faceLibraryEndpoint      = "/ISAPI/Intelligent/FDLib"
	faceCapabilitiesEndpoint = "/ISAPI/Intelligent/FDLib/capabilities"
	faceRecordEndpoint       = "/ISAPI/Intelligent/FDLib/FaceDataRecord"
	faceSearchEndpoint       = "/ISAPI/Intelligent/FDLib/FDSearch"
)

// FaceFilter restricts a face library search. FDID 0 selects the default
// library and an empty FaceLibType the default type.
type FaceFilter struct {
	FDID        int    `json:"fdid,omitempty"`
	FaceLibType string `json:"faceLibType,omitempty"`
	FPID        string `json:"fpid,omitempty"`
}

// FaceService manages face libraries and face pictures. Images are passed
// through unchanged.
type FaceService struct {
	base
}

// NewFaceService creates a face service over req.
func NewFaceService(req Requester, opts ...Option) *FaceService {
	return &FaceService{base: newBase(req, opts)}
}

func picturePath(fdid int) string {
	return fmt.Sprintf("%s/%d/picture", faceLibraryEndpoint, fdid)
}

// Libraries lists the device's face libraries.
func (s *FaceService) Libraries(ctx context.Context) (wire.Value, error) {
	return s.req.Get(ctx, faceLibraryEndpoint, nil)
}

// CreateLibrary creates a face library from a caller supplied definition.
func (s *FaceService) CreateLibrary(ctx context.Context, library wire.Value) (wire.Value, error) {
	return s.req.Post(ctx, faceLibraryEndpoint, library, nil)
}

// Capabilities returns the device's face library capabilities.
func (s *FaceService) Capabilities(ctx context.Context) (wire.Value, error) {
	return s.req.Get(ctx, faceCapabilitiesEndpoint, nil)
}

// UploadFace stores a base64 encoded face picture for a person in library
// fdid. A non-positive fdid selects the default library.
func (s *FaceService) UploadFace(ctx context.Context, employeeNo, imageBase64 string, fdid int) (wire.Value, error) {
	if fdid <= 0 {
		fdid = models.DefaultFaceLibID
	}
	face := models.NewFace(employeeNo, imageBase64)
	face.FaceLibID = fdid
	return s.req.Post(ctx, picturePath(fdid), face.ToWire(), nil)
}

// UploadFaceRecord stores a binary face picture with a FaceDataRecord
// multipart upload. face.FaceData is ignored in favor of image.
func (s *FaceService) UploadFaceRecord(ctx context.Context, face models.Face, image []byte) (wire.Value, error) {
	fdid := face.FaceLibID
	if fdid <= 0 {
		fdid = models.DefaultFaceLibID
	}
	libType := face.FaceLibType
	if libType == "" {
		libType = models.DefaultFaceLibType
	}

	record := wire.Object(
		wire.M("faceLibType", wire.String(libType)),
		wire.M("FDID", wire.String(strconv.Itoa(fdid))),
		wire.M("FPID", wire.String(face.EmployeeNo)),
	)

	parts := []transport.Part{
		{Name: "FaceDataRecord", ContentType: "application/json", Data: []byte(record.String())},
		{Name: "img", Filename: face.EmployeeNo + ".jpg", ContentType: "image/jpeg", Data: image},
	}
	return s.req.PostMultipart(ctx, faceRecordEndpoint, parts, nil)
}

// DeleteFace removes picture fpid from library fdid.
func (s *FaceService) DeleteFace(ctx context.Context, fdid, fpid int) (wire.Value, error) {
	return s.req.Delete(ctx, fmt.Sprintf("%s/%d", picturePath(fdid), fpid), nil)
}

// Search returns one page of face pictures matching filter.
func (s *FaceService) Search(ctx context.Context, page Page, filter FaceFilter) ([]models.FaceMatch, error) {
	fdid := filter.FDID
	if fdid <= 0 {
		fdid = models.DefaultFaceLibID
	}
	libType := filter.FaceLibType
	if libType == "" {
		libType = models.DefaultFaceLibType
	}

	cond := append(s.searchCond(page),
		wire.M("faceLibType", wire.String(libType)),
		wire.M("FDID", wire.String(strconv.Itoa(fdid))),
	)
	if filter.FPID != "" {
		cond = append(cond, wire.M("FPID", wire.String(filter.FPID)))
	}

	resp, err := s.req.Post(ctx, faceSearchEndpoint, wire.Object(cond...), nil)
	if err != nil {
		return nil, err
	}

	matches := decodeList(resp, models.FaceMatchFromWire, "MatchList")
	s.logger.Debug("services: face search",
		"fdid", fdid,
		"position", page.Position(),
		"results", len(matches))
	return matches, nil
}
