package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lei/hikvision-gateway/pkg/isapi/client"
	"github.com/lei/hikvision-gateway/pkg/isapi/models"
	"github.com/lei/hikvision-gateway/pkg/isapi/services"
	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
	"github.com/lei/hikvision-gateway/pkg/logger"
)

// ErrDeviceNotFound indicates the requested device is not configured
var ErrDeviceNotFound = errors.New("device not found")

const healthTimeout = 5 * time.Second

// DeviceSummary describes one configured device
type DeviceSummary struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	Default bool   `json:"default"`
}

// Service coordinates the API layer and the per-device resource services
type Service struct {
	registry *client.Registry
	sets     map[string]*services.Set
	logger   *logger.Logger
}

// NewService creates a service with one resource set per configured device
func NewService(reg *client.Registry, log *logger.Logger, opts ...services.Option) *Service {
	log = logger.OrNop(log)
	opts = append([]services.Option{services.WithLogger(log)}, opts...)

	sets := make(map[string]*services.Set)
	for _, name := range reg.Names() {
		gw, err := reg.Get(name)
		if err != nil {
			continue
		}
		sets[name] = services.NewSet(gw, opts...)
	}

	return &Service{
		registry: reg,
		sets:     sets,
		logger:   log,
	}
}

// getLogger retrieves the request-scoped logger or falls back to the service logger
func (s *Service) getLogger(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// set resolves a device name. Empty selects the default device.
func (s *Service) set(ctx context.Context, device string) (string, *services.Set, error) {
	if device == "" {
		device = s.registry.DefaultName()
	}
	set, ok := s.sets[device]
	if !ok {
		s.getLogger(ctx).Debug("service: device not found", "device", device)
		return device, nil, ErrDeviceNotFound
	}
	return device, set, nil
}

// Devices lists the configured devices
func (s *Service) Devices(ctx context.Context) []DeviceSummary {
	names := s.registry.Names()
	out := make([]DeviceSummary, 0, len(names))
	for _, name := range names {
		gw, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		out = append(out, DeviceSummary{
			Name:    name,
			BaseURL: gw.Target().BaseURL,
			Default: name == s.registry.DefaultName(),
		})
	}
	return out
}

// DeviceInfo retrieves the device identity
func (s *Service) DeviceInfo(ctx context.Context, device string) (models.DeviceInfo, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return models.DeviceInfo{}, err
	}

	info, err := set.Device.Info(ctx)
	if err != nil {
		logger.Error("service: failed to get device info", "device", name, "error", err)
		return models.DeviceInfo{}, err
	}

	logger.Debug("service: device info retrieved", "device", name, "model", info.Model)
	return info, nil
}

// DeviceOnline reports whether the device answers
func (s *Service) DeviceOnline(ctx context.Context, device string) (bool, error) {
	_, set, err := s.set(ctx, device)
	if err != nil {
		return false, err
	}
	return set.Device.IsOnline(ctx), nil
}

// DeviceStatus retrieves the device system status
func (s *Service) DeviceStatus(ctx context.Context, device string) (wire.Value, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return wire.Value{}, err
	}

	status, err := set.Device.Status(ctx)
	if err != nil {
		logger.Error("service: failed to get device status", "device", name, "error", err)
		return wire.Value{}, err
	}
	return status, nil
}

// ControlDoor sends a remote control command to a door
func (s *Service) ControlDoor(ctx context.Context, device string, door int, cmd services.DoorCommand) (models.ResponseStatus, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return models.ResponseStatus{}, err
	}

	logger.Info("service: controlling door", "device", name, "door", door, "cmd", string(cmd))

	status, err := set.Access.ControlDoor(ctx, door, cmd)
	if err != nil {
		logger.Error("service: door control failed",
			"device", name,
			"door", door,
			"cmd", string(cmd),
			"error", err)
		return models.ResponseStatus{}, err
	}
	return status, nil
}

// DoorStatus retrieves a door's state
func (s *Service) DoorStatus(ctx context.Context, device string, door int) (wire.Value, error) {
	_, set, err := s.set(ctx, device)
	if err != nil {
		return wire.Value{}, err
	}
	return set.Access.DoorStatus(ctx, door)
}

// SearchPersons returns one page of persons, optionally restricted to employee numbers
func (s *Service) SearchPersons(ctx context.Context, device string, page services.Page, employeeNos ...string) ([]models.Person, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return nil, err
	}

	persons, err := set.Persons.Search(ctx, page, employeeNos...)
	if err != nil {
		logger.Error("service: person search failed", "device", name, "error", err)
		return nil, err
	}

	logger.Debug("service: persons listed", "device", name, "count", len(persons))
	return persons, nil
}

// CountPersons returns the number of persons enrolled on the device
func (s *Service) CountPersons(ctx context.Context, device string) (int, error) {
	_, set, err := s.set(ctx, device)
	if err != nil {
		return 0, err
	}
	return set.Persons.Count(ctx)
}

// AddPerson enrolls a person
func (s *Service) AddPerson(ctx context.Context, device string, p models.Person) (wire.Value, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return wire.Value{}, err
	}

	resp, err := set.Persons.Add(ctx, p)
	if err != nil {
		logger.Error("service: failed to add person", "device", name, "employee_no", p.EmployeeNo, "error", err)
		return wire.Value{}, err
	}

	logger.Info("service: person added", "device", name, "employee_no", p.EmployeeNo)
	return resp, nil
}

// UpdatePerson modifies an enrolled person
func (s *Service) UpdatePerson(ctx context.Context, device string, p models.Person) (wire.Value, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return wire.Value{}, err
	}

	resp, err := set.Persons.Update(ctx, p)
	if err != nil {
		logger.Error("service: failed to update person", "device", name, "employee_no", p.EmployeeNo, "error", err)
		return wire.Value{}, err
	}

	logger.Info("service: person updated", "device", name, "employee_no", p.EmployeeNo)
	return resp, nil
}

// DeletePersons removes persons by employee number
func (s *Service) DeletePersons(ctx context.Context, device string, employeeNos []string) (wire.Value, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return wire.Value{}, err
	}

	resp, err := set.Persons.Delete(ctx, employeeNos)
	if err != nil {
		logger.Error("service: failed to delete persons", "device", name, "count", len(employeeNos), "error", err)
		return wire.Value{}, err
	}

	logger.Info("service: persons deleted", "device", name, "count", len(employeeNos))
	return resp, nil
}

// DeleteAllPersons removes every person from the device
func (s *Service) DeleteAllPersons(ctx context.Context, device string) (wire.Value, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return wire.Value{}, err
	}

	logger.Warn("service: deleting all persons", "device", name)
	return set.Persons.DeleteAll(ctx)
}

// SearchCards returns one page of cards
func (s *Service) SearchCards(ctx context.Context, device string, page services.Page, filter services.CardFilter) ([]models.Card, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return nil, err
	}

	cards, err := set.Cards.Search(ctx, page, filter)
	if err != nil {
		logger.Error("service: card search failed", "device", name, "error", err)
		return nil, err
	}
	return cards, nil
}

// BatchAddCards issues cards one at a time and reports per-card outcomes
func (s *Service) BatchAddCards(ctx context.Context, device string, cards []models.Card) (models.BatchResult, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return models.BatchResult{}, err
	}

	result := set.Cards.BatchAdd(ctx, cards)
	logger.Info("service: card batch completed",
		"device", name,
		"total", result.Total,
		"success", result.Success,
		"failed", result.Failed)
	return result, nil
}

// DeleteCards removes the cards of the given employees
func (s *Service) DeleteCards(ctx context.Context, device string, employeeNos []string) (wire.Value, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return wire.Value{}, err
	}

	resp, err := set.Cards.Delete(ctx, employeeNos)
	if err != nil {
		logger.Error("service: failed to delete cards", "device", name, "error", err)
		return wire.Value{}, err
	}
	return resp, nil
}

// DeleteAllCards removes every card from the device
func (s *Service) DeleteAllCards(ctx context.Context, device string) (wire.Value, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return wire.Value{}, err
	}

	logger.Warn("service: deleting all cards", "device", name)
	return set.Cards.DeleteAll(ctx)
}

// SearchEvents returns one page of access events
func (s *Service) SearchEvents(ctx context.Context, device string, filter services.EventFilter, page services.Page) ([]models.AccessEvent, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return nil, err
	}

	events, err := set.Events.Search(ctx, filter, page)
	if err != nil {
		logger.Error("service: event search failed", "device", name, "error", err)
		return nil, err
	}

	logger.Debug("service: events listed", "device", name, "count", len(events))
	return events, nil
}

// CountEvents returns the number of events matching filter
func (s *Service) CountEvents(ctx context.Context, device string, filter services.EventFilter) (int, error) {
	_, set, err := s.set(ctx, device)
	if err != nil {
		return 0, err
	}
	return set.Events.Count(ctx, filter)
}

// SubscribeEvents registers an event subscription on the device
func (s *Service) SubscribeEvents(ctx context.Context, device string, eventTypes []string, heartbeat int) (wire.Value, error) {
	logger := s.getLogger(ctx)

	name, set, err := s.set(ctx, device)
	if err != nil {
		return wire.Value{}, err
	}

	resp, err := set.Events.Subscribe(ctx, eventTypes, heartbeat)
	if err != nil {
		logger.Error("service: event subscription failed", "device", name, "error", err)
		return wire.Value{}, err
	}

	logger.Info("service: events subscribed", "device", name, "event_types", eventTypes)
	return resp, nil
}

// HealthCheck probes every device concurrently
func (s *Service) HealthCheck(ctx context.Context) map[string]interface{} {
	logger := s.getLogger(ctx)

	health := map[string]interface{}{
		"status":  "healthy",
		"service": "hikvision-gateway",
	}

	healthCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	devices := make(map[string]interface{}, len(s.sets))
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		offline int
	)
	for name, set := range s.sets {
		wg.Add(1)
		go func(name string, set *services.Set) {
			defer wg.Done()
			online := set.Device.IsOnline(healthCtx)

			mu.Lock()
			defer mu.Unlock()
			if online {
				devices[name] = map[string]interface{}{"status": "online"}
				return
			}
			offline++
			devices[name] = map[string]interface{}{"status": "offline"}
		}(name, set)
	}
	wg.Wait()

	health["checks"] = map[string]interface{}{"devices": devices}
	if offline > 0 {
		logger.Warn("service: devices offline", "offline", offline, "total", len(s.sets))
		health["status"] = "degraded"
	}

	logger.Debug("service: health check completed", "status", health["status"])
	return health
}
