// Package services adapts domain operations on an ISAPI device (persons,
// cards, fingerprints, faces, events, doors) into gateway calls.
package services

//go:generate mockgen -destination=mock_requester_test.go -package=services . Requester

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"github.com/lei/hikvision-gateway/pkg/isapi/transport"
	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
	"github.com/lei/hikvision-gateway/pkg/logger"
)

// Requester issues requests against one device. *client.Gateway implements it.
type Requester interface {
	Get(ctx context.Context, endpoint string, query url.Values) (wire.Value, error)
	Post(ctx context.Context, endpoint string, body any, query url.Values) (wire.Value, error)
	Put(ctx context.Context, endpoint string, body any, query url.Values) (wire.Value, error)
	Delete(ctx context.Context, endpoint string, query url.Values) (wire.Value, error)
	PostMultipart(ctx context.Context, endpoint string, parts []transport.Part, query url.Values) (wire.Value, error)
}

// Option configures a service.
type Option func(*base)

// WithLogger sets the service logger.
func WithLogger(log *logger.Logger) Option {
	return func(b *base) {
		b.logger = logger.OrNop(log)
	}
}

// WithSearchIDGenerator replaces the per-search session token source. The
// device expects a distinct token for every search.
func WithSearchIDGenerator(gen func() string) Option {
	return func(b *base) {
		if gen != nil {
			b.newSearchID = gen
		}
	}
}

// base carries what every resource service shares.
type base struct {
	req         Requester
	logger      *logger.Logger
	newSearchID func() string
}

func newBase(req Requester, opts []Option) base {
	b := base{
		req:         req,
		logger:      logger.NewNop(),
		newSearchID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Set bundles every resource service over one device.
type Set struct {
	Persons      *PersonService
	Cards        *CardService
	Fingerprints *FingerprintService
	Faces        *FaceService
	Events       *EventService
	Device       *DeviceService
	Access       *AccessControlService
}

// NewSet builds all resource services over req. The services share req and
// never modify it.
func NewSet(req Requester, opts ...Option) *Set {
	return &Set{
		Persons:      NewPersonService(req, opts...),
		Cards:        NewCardService(req, opts...),
		Fingerprints: NewFingerprintService(req, opts...),
		Faces:        NewFaceService(req, opts...),
		Events:       NewEventService(req, opts...),
		Device:       NewDeviceService(req, opts...),
		Access:       NewAccessControlService(req, opts...),
	}
}
