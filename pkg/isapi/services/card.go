package services

import (
	"context"
	"net/url"

	"github.com/lei/hikvision-gateway/pkg/isapi/models"
	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
)

const (
	cardCapabilitiesEndpoint = "/ISAPI/AccessControl/CardInfo/capabilities"
	cardCountEndpoint        = "/ISAPI/AccessControl/CardInfo/Count"
	cardSearchEndpoint       = "/ISAPI/AccessControl/CardInfo/Search"
	cardRecordEndpoint       = "/ISAPI/AccessControl/CardInfo/Record"
	cardModifyEndpoint       = "/ISAPI/AccessControl/CardInfo/Modify"
	cardDeleteEndpoint       = "/ISAPI/AccessControl/CardInfo/Delete"
)

// CardFilter restricts a card search. Empty fields do not filter.
type CardFilter struct {
	EmployeeNo string `json:"employeeNo,omitempty"`
	CardNo     string `json:"cardNo,omitempty"`
}

func (f CardFilter) members() []wire.Member {
	var out []wire.Member
	if f.EmployeeNo != "" {
		out = append(out, wire.M("employeeNo", wire.String(f.EmployeeNo)))
	}
	if f.CardNo != "" {
		out = append(out, wire.M("cardNo", wire.String(f.CardNo)))
	}
	return out
}

// CardService manages credential cards.
type CardService struct {
	base
}

// NewCardService creates a card service over req.
func NewCardService(req Requester, opts ...Option) *CardService {
	return &CardService{base: newBase(req, opts)}
}

// Capabilities returns the device's card capabilities.
func (s *CardService) Capabilities(ctx context.Context) (wire.Value, error) {
	return s.req.Get(ctx, cardCapabilitiesEndpoint, nil)
}

// Count returns the number of cards, optionally for one person. It returns 0
// when the device omits the count.
func (s *CardService) Count(ctx context.Context, employeeNo string) (int, error) {
	var query url.Values
	if employeeNo != "" {
		query = url.Values{"employeeNo": {employeeNo}}
	}

	resp, err := s.req.Get(ctx, cardCountEndpoint, query)
	if err != nil {
		return 0, err
	}
	return resp.Path("CardInfo", "cardNumber").IntOr(0), nil
}

// Search returns one page of cards matching filter.
func (s *CardService) Search(ctx context.Context, page Page, filter CardFilter) ([]models.Card, error) {
	resp, err := s.req.Post(ctx, cardSearchEndpoint, s.searchEnvelope("CardInfoSearchCond", page, filter.members()...), nil)
	if err != nil {
		return nil, err
	}

	cards := decodeList(resp, models.CardFromWire, "CardInfoSearch", "CardInfo")
	s.logger.Debug("services: card search",
		"position", page.Position(),
		"results", len(cards))
	return cards, nil
}

// Add creates a card.
func (s *CardService) Add(ctx context.Context, c models.Card) (wire.Value, error) {
	return s.req.Post(ctx, cardRecordEndpoint, c.ToWire(), nil)
}

// Update modifies an existing card.
func (s *CardService) Update(ctx context.Context, c models.Card) (wire.Value, error) {
	return s.req.Put(ctx, cardModifyEndpoint, c.ToWire(), nil)
}

// Delete removes every card bound to the given employee numbers.
func (s *CardService) Delete(ctx context.Context, employeeNos []string) (wire.Value, error) {
	return s.req.Put(ctx, cardDeleteEndpoint, deleteEnvelope("CardInfoDelCond", employeeNos), nil)
}

// DeleteAll removes every card on the device.
func (s *CardService) DeleteAll(ctx context.Context) (wire.Value, error) {
	return s.req.Put(ctx, cardDeleteEndpoint, deleteAllEnvelope("CardInfoDelCond"), nil)
}

// BatchAdd adds every card, continuing past failures. Items are identified
// by card number.
func (s *CardService) BatchAdd(ctx context.Context, cards []models.Card) models.BatchResult {
	return runBatch(ctx, s.logger, cards,
		func(c models.Card) string { return c.CardNo },
		func(ctx context.Context, c models.Card) error {
			_, err := s.Add(ctx, c)
			return err
		})
}
