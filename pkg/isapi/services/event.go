package services

import (
	"context"

	"github.com/lei/hikvision-gateway/pkg/isapi/models"
	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
)

const (
	eventSearchEndpoint    = "/ISAPI/AccessControl/AcsEvent"
	eventCountEndpoint     = "/ISAPI/AccessControl/AcsEventTotalNum"
	eventSubscribeEndpoint = "/ISAPI/Event/notification/subscribeEvent"
)

// DefaultHeartbeat is the subscription heartbeat in seconds used when none is
// set.
const DefaultHeartbeat = 60

// EventFilter restricts an access event search. Major and Minor 0 match every
// event class; empty strings do not filter.
type EventFilter struct {
	Major      int    `json:"major"`
	Minor      int    `json:"minor"`
	StartTime  string `json:"startTime,omitempty"`
	EndTime    string `json:"endTime,omitempty"`
	EmployeeNo string `json:"employeeNo,omitempty"`
	CardNo     string `json:"cardNo,omitempty"`
}

// Conditions returns the filter as an AcsEventCond body.
func (f EventFilter) Conditions() wire.Value {
	members := []wire.Member{
		wire.M("major", wire.Int(f.Major)),
		wire.M("minor", wire.Int(f.Minor)),
	}
	if f.StartTime != "" {
		members = append(members, wire.M("startTime", wire.String(f.StartTime)))
	}
	if f.EndTime != "" {
		members = append(members, wire.M("endTime", wire.String(f.EndTime)))
	}
	if f.EmployeeNo != "" {
		members = append(members, wire.M("employeeNoString", wire.String(f.EmployeeNo)))
	}
	if f.CardNo != "" {
		members = append(members, wire.M("cardNo", wire.String(f.CardNo)))
	}
	return wire.Object(members...)
}

// EventService retrieves access events and registers event subscriptions.
type EventService struct {
	base
}

// NewEventService creates an event service over req.
func NewEventService(req Requester, opts ...Option) *EventService {
	return &EventService{base: newBase(req, opts)}
}

// Search returns one page of access events matching filter.
func (s *EventService) Search(ctx context.Context, filter EventFilter, page Page) ([]models.AccessEvent, error) {
	resp, err := s.SearchRaw(ctx, filter.Conditions(), page)
	if err != nil {
		return nil, err
	}

	events := decodeList(resp, models.AccessEventFromWire, "AcsEvent", "InfoList")
	s.logger.Debug("services: event search",
		"position", page.Position(),
		"results", len(events))
	return events, nil
}

// SearchRaw posts caller supplied AcsEventCond conditions with the page
// window and returns the response undecoded. The window fields replace any
// the conditions carry.
func (s *EventService) SearchRaw(ctx context.Context, conds wire.Value, page Page) (wire.Value, error) {
	if !conds.IsObject() {
		conds = wire.Object()
	}
	body := wire.Object(wire.M("AcsEventCond", conds.Merge(wire.Object(s.searchCond(page)...))))
	return s.req.Post(ctx, eventSearchEndpoint, body, nil)
}

// Count returns the number of events matching filter, 0 when the device
// omits it.
func (s *EventService) Count(ctx context.Context, filter EventFilter) (int, error) {
	body := wire.Object(wire.M("AcsEventTotalNumCond", filter.Conditions()))

	resp, err := s.req.Post(ctx, eventCountEndpoint, body, nil)
	if err != nil {
		return 0, err
	}

	if total, ok := resp.Get("totalNum"); ok {
		return total.IntOr(0), nil
	}
	return resp.Path("AcsEventTotalNum", "totalNum").IntOr(0), nil
}

// Subscribe registers interest in eventTypes with a heartbeat interval in
// seconds. Only the subscription call is issued; delivery is out of band.
func (s *EventService) Subscribe(ctx context.Context, eventTypes []string, heartbeat int) (wire.Value, error) {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	body := wire.Object(wire.M("SubscribeEvent", wire.Object(
		wire.M("eventMode", wire.String("list")),
		wire.M("eventList", wire.Strings(eventTypes)),
		wire.M("heartbeat", wire.Int(heartbeat)),
	)))
	return s.req.Post(ctx, eventSubscribeEndpoint, body, nil)
}
