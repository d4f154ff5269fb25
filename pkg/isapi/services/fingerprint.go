package services

import (
	"context"

	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
)

const (
	fingerprintCapabilitiesEndpoint = "/ISAPI/AccessControl/FingerPrint/capabilities"
	fingerprintSearchEndpoint       = "/ISAPI/AccessControl/FingerPrint/Search"
	fingerprintRecordEndpoint       = "/ISAPI/AccessControl/FingerPrint/Record"
	fingerprintDeleteEndpoint       = "/ISAPI/AccessControl/FingerPrint/Delete"
	fingerprintCaptureEndpoint      = "/ISAPI/AccessControl/CaptureFingerPrint"
)

// DefaultCaptureTimeout is the capture window in seconds used when none is set.
const DefaultCaptureTimeout = 30

// FingerprintService manages fingerprint templates. Template data is passed
// through unchanged.
type FingerprintService struct {
	base
}

// NewFingerprintService creates a fingerprint service over req.
func NewFingerprintService(req Requester, opts ...Option) *FingerprintService {
	return &FingerprintService{base: newBase(req, opts)}
}

// Capabilities returns the device's fingerprint capabilities.
func (s *FingerprintService) Capabilities(ctx context.Context) (wire.Value, error) {
	return s.req.Get(ctx, fingerprintCapabilitiesEndpoint, nil)
}

// Search returns one page of fingerprint records, optionally for one person.
// The response is returned undecoded.
func (s *FingerprintService) Search(ctx context.Context, page Page, employeeNo string) (wire.Value, error) {
	var filters []wire.Member
	if employeeNo != "" {
		filters = append(filters, wire.M("employeeNo", wire.String(employeeNo)))
	}
	return s.req.Post(ctx, fingerprintSearchEndpoint, s.searchEnvelope("FingerPrintCond", page, filters...), nil)
}

// Add stores a fingerprint template for a person.
func (s *FingerprintService) Add(ctx context.Context, employeeNo string, fingerPrintID int, data string) (wire.Value, error) {
	body := wire.Object(wire.M("FingerPrint", wire.Object(
		wire.M("employeeNo", wire.String(employeeNo)),
		wire.M("fingerPrintID", wire.Int(fingerPrintID)),
		wire.M("fingerData", wire.String(data)),
	)))
	return s.req.Post(ctx, fingerprintRecordEndpoint, body, nil)
}

// Capture asks the device to read a fingerprint from its sensor within
// timeoutSeconds. A non-positive timeout uses DefaultCaptureTimeout.
func (s *FingerprintService) Capture(ctx context.Context, timeoutSeconds int) (wire.Value, error) {
	if timeoutSeconds <= 0 {
		timeoutSeconds = DefaultCaptureTimeout
	}
	body := wire.Object(wire.M("FingerPrintCfg", wire.Object(
		wire.M("collectTimeout", wire.Int(timeoutSeconds)),
	)))
	return s.req.Post(ctx, fingerprintCaptureEndpoint, body, nil)
}

// Delete removes every fingerprint of the given persons.
func (s *FingerprintService) Delete(ctx context.Context, employeeNos []string) (wire.Value, error) {
	body := deleteEnvelope("FingerPrintDelete", employeeNos, wire.M("mode", wire.String("byEmployeeNo")))
	return s.req.Put(ctx, fingerprintDeleteEndpoint, body, nil)
}
