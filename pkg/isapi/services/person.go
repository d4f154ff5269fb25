package services

import (
	"context"

	"github.com/lei/hikvision-gateway/pkg/isapi/models"
	"github.com/lei/hikvision-gateway/pkg/isapi/wire"
)

const (
	personCapabilitiesEndpoint = "/ISAPI/AccessControl/UserInfo/Capabilities"
	personCountEndpoint        = "/ISAPI/AccessControl/UserInfo/Count"
	personSearchEndpoint       = "/ISAPI/AccessControl/UserInfo/Search"
	personRecordEndpoint       = "/ISAPI/AccessControl/UserInfo/Record"
	personModifyEndpoint       = "/ISAPI/AccessControl/UserInfo/Modify"
	personSetUpEndpoint        = "/ISAPI/AccessControl/UserInfo/SetUp"
	personDeleteEndpoint       = "/ISAPI/AccessControl/UserInfo/Delete"
)

// PersonService manages the device's user records.
type PersonService struct {
	base
}

// NewPersonService creates a person service over req.
func NewPersonService(req Requester, opts ...Option) *PersonService {
	return &PersonService{base: newBase(req, opts)}
}

// Capabilities returns the device's user record capabilities.
func (s *PersonService) Capabilities(ctx context.Context) (wire.Value, error) {
	return s.req.Get(ctx, personCapabilitiesEndpoint, nil)
}

// Count returns the number of enrolled persons, 0 when the device omits it.
func (s *PersonService) Count(ctx context.Context) (int, error) {
	resp, err := s.req.Get(ctx, personCountEndpoint, nil)
	if err != nil {
		return 0, err
	}
	return resp.Path("UserInfo", "userNumber").IntOr(0), nil
}

// Search returns one page of persons, optionally restricted to the given
// employee numbers.
func (s *PersonService) Search(ctx context.Context, page Page, employeeNos ...string) ([]models.Person, error) {
	var filters []wire.Member
	if len(employeeNos) > 0 {
		filters = append(filters, wire.M("EmployeeNoList", employeeNoList(employeeNos)))
	}

	resp, err := s.req.Post(ctx, personSearchEndpoint, s.searchEnvelope("UserInfoSearchCond", page, filters...), nil)
	if err != nil {
		return nil, err
	}

	persons := decodeList(resp, models.PersonFromWire, "UserInfoSearch", "UserInfo")
	s.logger.Debug("services: person search",
		"position", page.Position(),
		"results", len(persons))
	return persons, nil
}

// Add creates a person record.
func (s *PersonService) Add(ctx context.Context, p models.Person) (wire.Value, error) {
	return s.req.Post(ctx, personRecordEndpoint, p.ToWire(), nil)
}

// Update modifies an existing person record.
func (s *PersonService) Update(ctx context.Context, p models.Person) (wire.Value, error) {
	return s.req.Put(ctx, personModifyEndpoint, p.ToWire(), nil)
}

// Apply creates the person, or replaces it when it already exists.
func (s *PersonService) Apply(ctx context.Context, p models.Person) (wire.Value, error) {
	return s.req.Put(ctx, personSetUpEndpoint, p.ToWire(), nil)
}

// Delete removes the persons with the given employee numbers.
func (s *PersonService) Delete(ctx context.Context, employeeNos []string) (wire.Value, error) {
	return s.req.Put(ctx, personDeleteEndpoint, deleteEnvelope("UserInfoDelCond", employeeNos), nil)
}

// DeleteAll removes every person on the device.
func (s *PersonService) DeleteAll(ctx context.Context) (wire.Value, error) {
	return s.req.Put(ctx, personDeleteEndpoint, deleteAllEnvelope("UserInfoDelCond"), nil)
}

// BatchAdd adds every person, continuing past failures. Items are
// identified by employee number.
func (s *PersonService) BatchAdd(ctx context.Context, persons []models.Person) models.BatchResult {
	return runBatch(ctx, s.logger, persons,
		func(p models.Person) string { return p.EmployeeNo },
		func(ctx context.Context, p models.Person) error {
			_, err := s.Add(ctx, p)
			return err
		})
}
