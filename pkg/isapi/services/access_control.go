package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lei/hikvision-gateway/pkg/isapi/models"
	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
)

const (
	doorControlEndpoint = "/ISAPI/AccessControl/RemoteControl/door"
	doorStatusEndpoint  = "/ISAPI/AccessControl/DoorStatus"
)

var (
	// ErrInvalidDoor indicates a door number below 1
	ErrInvalidDoor = errors.New("door number must be positive")

	// ErrUnknownDoorCommand indicates a command the device does not accept
	ErrUnknownDoorCommand = errors.New("unknown door command")
)

// DoorCommand is a remote door control command.
type DoorCommand string

const (
	DoorOpen        DoorCommand = "open"
	DoorClose       DoorCommand = "close"
	DoorAlwaysOpen  DoorCommand = "alwaysOpen"
	DoorAlwaysClose DoorCommand = "alwaysClose"
)

// Valid reports whether c is a known command.
func (c DoorCommand) Valid() bool {
	switch c {
	case DoorOpen, DoorClose, DoorAlwaysOpen, DoorAlwaysClose:
		return true
	}
	return false
}

// AccessControlService actuates doors.
type AccessControlService struct {
	base
}

// NewAccessControlService creates a door control service over req.
func NewAccessControlService(req Requester, opts ...Option) *AccessControlService {
	return &AccessControlService{base: newBase(req, opts)}
}

// ControlDoor sends cmd to door doorNo.
func (s *AccessControlService) ControlDoor(ctx context.Context, doorNo int, cmd DoorCommand) (models.ResponseStatus, error) {
	if doorNo < 1 {
		return models.ResponseStatus{}, fmt.Errorf("door %d: %w", doorNo, ErrInvalidDoor)
	}
	if !cmd.Valid() {
		return models.ResponseStatus{}, fmt.Errorf("%q: %w", cmd, ErrUnknownDoorCommand)
	}

	body := wire.Object(wire.M("RemoteControlDoor", wire.Object(
		wire.M("cmd", wire.String(string(cmd))),
	)))

	resp, err := s.req.Put(ctx, fmt.Sprintf("%s/%d", doorControlEndpoint, doorNo), body, nil)
	if err != nil {
		return models.ResponseStatus{}, err
	}

	s.logger.Info("services: door command sent",
		"door", doorNo,
		"cmd", cmd)
	return models.ResponseStatusFromWire(resp), nil
}

// OpenDoor opens door doorNo once.
func (s *AccessControlService) OpenDoor(ctx context.Context, doorNo int) (models.ResponseStatus, error) {
	return s.ControlDoor(ctx, doorNo, DoorOpen)
}

// CloseDoor closes door doorNo.
func (s *AccessControlService) CloseDoor(ctx context.Context, doorNo int) (models.ResponseStatus, error) {
	return s.ControlDoor(ctx, doorNo, DoorClose)
}

// AlwaysOpen holds door doorNo open.
func (s *AccessControlService) AlwaysOpen(ctx context.Context, doorNo int) (models.ResponseStatus, error) {
	return s.ControlDoor(ctx, doorNo, DoorAlwaysOpen)
}

// AlwaysClose holds door doorNo closed.
func (s *AccessControlService) AlwaysClose(ctx context.Context, doorNo int) (models.ResponseStatus, error) {
	return s.ControlDoor(ctx, doorNo, DoorAlwaysClose)
}

// DoorStatus returns the state of door doorNo.
func (s *AccessControlService) DoorStatus(ctx context.Context, doorNo int) (wire.Value, error) {
	if doorNo < 1 {
		return wire.Value{}, fmt.Errorf("door %d: %w", doorNo, ErrInvalidDoor)
	}
	return s.req.Get(ctx, fmt.Sprintf("%s/%d", doorStatusEndpoint, doorNo), nil)
}
