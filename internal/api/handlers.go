package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lei/hikvision-gateway/internal/service"
	"github.com/lei/hikvision-gateway/pkg/isapi/models"
	"github.com/lei/hikvision-gateway/pkg/isapi/services"
	"github.com/lei/hikvision-gateway/pkg/isapi/transport"
)

// Handlers contains HTTP handler functions
type Handlers struct {
	service *service.Service
}

// NewHandlers creates a new handlers instance
func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{service: svc}
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.service.HealthCheck(r.Context()))
}

// ListDevices handles GET /v1/devices
func (h *Handlers) ListDevices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"devices": h.service.Devices(r.Context()),
	})
}

// GetDevice handles GET /v1/devices/{device}
func (h *Handlers) GetDevice(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.DeviceInfo(r.Context(), GetDevice(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"device": info,
	})
}

// DeviceOnline handles GET /v1/devices/{device}/online
func (h *Handlers) DeviceOnline(w http.ResponseWriter, r *http.Request) {
	device := GetDevice(r.Context())

	online, err := h.service.DeviceOnline(r.Context(), device)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"device": device,
		"online": online,
	})
}

// DeviceStatus handles GET /v1/devices/{device}/status
func (h *Handlers) DeviceStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.DeviceStatus(r.Context(), GetDevice(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": status,
	})
}

// ControlDoor handles POST /v1/devices/{device}/doors/{door}/{cmd}
func (h *Handlers) ControlDoor(w http.ResponseWriter, r *http.Request) {
	logger := GetLogger(r.Context())

	door, err := strconv.Atoi(chi.URLParam(r, "door"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid door number")
		return
	}
	cmd := services.DoorCommand(chi.URLParam(r, "cmd"))

	if logger != nil {
		logger.Debug("controlling door", "door", door, "cmd", string(cmd))
	}

	status, err := h.service.ControlDoor(r.Context(), GetDevice(r.Context()), door, cmd)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"result": status,
	})
}

// DoorStatus handles GET /v1/devices/{device}/doors/{door}
func (h *Handlers) DoorStatus(w http.ResponseWriter, r *http.Request) {
	door, err := strconv.Atoi(chi.URLParam(r, "door"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid door number")
		return
	}

	status, err := h.service.DoorStatus(r.Context(), GetDevice(r.Context()), door)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"door":   door,
		"status": status,
	})
}

// ListPersons handles GET /v1/devices/{device}/persons
// Query parameters: page, pageSize, employeeNo (repeatable or comma
// separated), search, userType
func (h *Handlers) ListPersons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := parsePage(q)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	persons, err := h.service.SearchPersons(r.Context(), GetDevice(r.Context()), page, parseList(q, "employeeNo")...)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	persons = FilterPersons(persons, q.Get("search"), models.UserType(q.Get("userType")))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"persons":  persons,
		"page":     page.Number,
		"pageSize": page.Size,
	})
}

// CountPersons handles GET /v1/devices/{device}/persons/count
func (h *Handlers) CountPersons(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CountPersons(r.Context(), GetDevice(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": n,
	})
}

// CreatePerson handles POST /v1/devices/{device}/persons
func (h *Handlers) CreatePerson(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePerson(w, r)
	if !ok {
		return
	}

	resp, err := h.service.AddPerson(r.Context(), GetDevice(r.Context()), p)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"result": models.ResponseStatusFromWire(resp),
	})
}

// UpdatePerson handles PUT /v1/devices/{device}/persons
func (h *Handlers) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePerson(w, r)
	if !ok {
		return
	}

	resp, err := h.service.UpdatePerson(r.Context(), GetDevice(r.Context()), p)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"result": models.ResponseStatusFromWire(resp),
	})
}

// DeletePersons handles DELETE /v1/devices/{device}/persons
// Either ?all=true or at least one employeeNo is required.
func (h *Handlers) DeletePersons(w http.ResponseWriter, r *http.Request) {
	device := GetDevice(r.Context())
	q := r.URL.Query()

	if all := parseBoolParam(q.Get("all")); all != nil && *all {
		resp, err := h.service.DeleteAllPersons(r.Context(), device)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"result": models.ResponseStatusFromWire(resp)})
		return
	}

	ids := parseList(q, "employeeNo")
	if len(ids) == 0 {
		respondError(w, r, http.StatusBadRequest, "employeeNo or all=true is required")
		return
	}

	resp, err := h.service.DeletePersons(r.Context(), device, ids)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"result": models.ResponseStatusFromWire(resp),
	})
}

// ListCards handles GET /v1/devices/{device}/cards
// Query parameters: page, pageSize, employeeNo, cardNo
func (h *Handlers) ListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := parsePage(q)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	filter := services.CardFilter{
		EmployeeNo: q.Get("employeeNo"),
		CardNo:     q.Get("cardNo"),
	}

	cards, err := h.service.SearchCards(r.Context(), GetDevice(r.Context()), page, filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cards":    cards,
		"page":     page.Number,
		"pageSize": page.Size,
	})
}

// BatchAddCards handles POST /v1/devices/{device}/cards/batch
func (h *Handlers) BatchAddCards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cards []models.Card `json:"cards"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Cards) == 0 {
		respondError(w, r, http.StatusBadRequest, "cards must not be empty")
		return
	}

	result, err := h.service.BatchAddCards(r.Context(), GetDevice(r.Context()), req.Cards)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
	})
}

// DeleteCards handles DELETE /v1/devices/{device}/cards
// Either ?all=true or at least one employeeNo is required.
func (h *Handlers) DeleteCards(w http.ResponseWriter, r *http.Request) {
	device := GetDevice(r.Context())
	q := r.URL.Query()

	if all := parseBoolParam(q.Get("all")); all != nil && *all {
		resp, err := h.service.DeleteAllCards(r.Context(), device)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"result": models.ResponseStatusFromWire(resp)})
		return
	}

	ids := parseList(q, "employeeNo")
	if len(ids) == 0 {
		respondError(w, r, http.StatusBadRequest, "employeeNo or all=true is required")
		return
	}

	resp, err := h.service.DeleteCards(r.Context(), device, ids)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"result": models.ResponseStatusFromWire(resp),
	})
}

// eventQuery is the body of the event search and count endpoints
type eventQuery struct {
	Filter   services.EventFilter `json:"filter"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
}

// SearchEvents handles POST /v1/devices/{device}/events/search
func (h *Handlers) SearchEvents(w http.ResponseWriter, r *http.Request) {
	var req eventQuery
	if !decodeOptionalBody(w, r, &req) {
		return
	}
	page := services.Page{Number: req.Page, Size: req.PageSize}.Normalize()

	events, err := h.service.SearchEvents(r.Context(), GetDevice(r.Context()), req.Filter, page)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"events":   events,
		"page":     page.Number,
		"pageSize": page.Size,
	})
}

// CountEvents handles POST /v1/devices/{device}/events/count
func (h *Handlers) CountEvents(w http.ResponseWriter, r *http.Request) {
	var req eventQuery
	if !decodeOptionalBody(w, r, &req) {
		return
	}

	n, err := h.service.CountEvents(r.Context(), GetDevice(r.Context()), req.Filter)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": n,
	})
}

// SubscribeEvents handles POST /v1/devices/{device}/events/subscribe
func (h *Handlers) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventTypes []string `json:"eventTypes"`
		Heartbeat  int      `json:"heartbeat"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.EventTypes) == 0 {
		respondError(w, r, http.StatusBadRequest, "eventTypes must not be empty")
		return
	}

	resp, err := h.service.SubscribeEvents(r.Context(), GetDevice(r.Context()), req.EventTypes, req.Heartbeat)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"subscription": resp,
	})
}

// decodePerson reads a person body. Unset fields take the device defaults.
func decodePerson(w http.ResponseWriter, r *http.Request) (models.Person, bool) {
	p := models.Person{UserType: models.UserTypeNormal, ValidEnabled: true}
	if !decodeBody(w, r, &p) {
		return models.Person{}, false
	}
	if p.EmployeeNo == "" {
		respondError(w, r, http.StatusBadRequest, "employeeNo is required")
		return models.Person{}, false
	}
	return p, true
}

// decodeBody decodes a required JSON body, answering 400 on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logger := GetLogger(r.Context())
		if logger != nil {
			logger.Warn("invalid request body", "error", err)
		}
		respondError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// decodeOptionalBody is decodeBody that accepts an empty body
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	logger := GetLogger(r.Context())
	if logger != nil {
		logger.Warn("invalid request body", "error", err)
	}
	respondError(w, r, http.StatusBadRequest, "invalid request body")
	return false
}

// respondJSON writes v as a JSON response
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error response with logging
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logger := GetLogger(r.Context())
	requestID := GetRequestID(r.Context())

	if logger != nil {
		logger.Error("returning error response",
			"status", status,
			"message", message,
			"request_id", requestID)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"message":    message,
			"code":       status,
			"request_id": requestID,
		},
	})
}

// handleServiceError maps service errors to HTTP responses with detailed logging
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := GetLogger(r.Context())
	requestID := GetRequestID(r.Context())

	if logger != nil {
		logger.Error("service error occurred",
			"error", err.Error(),
			"error_type", fmt.Sprintf("%T", err),
			"request_id", requestID)
	}

	switch {
	case errors.Is(err, service.ErrDeviceNotFound):
		respondError(w, r, http.StatusNotFound, "device not found")
	case errors.Is(err, services.ErrInvalidDoor), errors.Is(err, services.ErrUnknownDoorCommand):
		respondError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, transport.ErrUnauthorized):
		respondError(w, r, http.StatusBadGateway, "device authentication failed")
	case errors.Is(err, transport.ErrDeviceUnavailable):
		respondError(w, r, http.StatusBadGateway, "device temporarily unavailable")
	default:
		var transportErr *transport.Error
		if errors.As(err, &transportErr) {
			if logger != nil {
				logger.Error("device error details",
					"device_code", transportErr.Code,
					"device_message", transportErr.Message,
					"sub_status", transportErr.SubStatus,
					"underlying_error", transportErr.Err)
			}

			if transportErr.Code >= 400 && transportErr.Code < 500 {
				respondError(w, r, transportErr.Code, transportErr.Message)
			} else {
				respondError(w, r, http.StatusBadGateway, "device error")
			}
		} else {
			respondError(w, r, http.StatusInternalServerError, "internal server error")
		}
	}
}
