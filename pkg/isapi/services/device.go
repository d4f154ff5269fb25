package services

import (
	"context"

	"github.com/lei/hikvision-gateway/pkg/isapi/models"
	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
)

const (
	deviceInfoEndpoint         = "/ISAPI/System/deviceInfo"
	deviceCapabilitiesEndpoint = "/ISAPI/AccessControl/capabilities"
	deviceStatusEndpoint       = "/ISAPI/System/status"
)

// DeviceService exposes device identity and health.
type DeviceService struct {
	base
}

// NewDeviceService creates a device service over req.
func NewDeviceService(req Requester, opts ...Option) *DeviceService {
	return &DeviceService{base: newBase(req, opts)}
}

// InfoRaw returns the undecoded device information document.
func (s *DeviceService) InfoRaw(ctx context.Context) (wire.Value, error) {
	return s.req.Get(ctx, deviceInfoEndpoint, nil)
}

// Info returns the decoded device information.
func (s *DeviceService) Info(ctx context.Context) (models.DeviceInfo, error) {
	resp, err := s.InfoRaw(ctx)
	if err != nil {
		return models.DeviceInfo{}, err
	}
	return models.DeviceInfoFromWire(resp), nil
}

// Capabilities returns the device's access-control capabilities.
func (s *DeviceService) Capabilities(ctx context.Context) (wire.Value, error) {
	return s.req.Get(ctx, deviceCapabilitiesEndpoint, nil)
}

// Status returns the device's system status.
func (s *DeviceService) Status(ctx context.Context) (wire.Value, error) {
	return s.req.Get(ctx, deviceStatusEndpoint, nil)
}

// IsOnline probes the device information endpoint. Any failure reports
// false.
func (s *DeviceService) IsOnline(ctx context.Context) bool {
	if _, err := s.InfoRaw(ctx); err != nil {
		s.logger.Debug("services: device offline", "error", err)
		return false
	}
	return true
}
