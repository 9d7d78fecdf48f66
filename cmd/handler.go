package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// addressStore is the persistence the handlers need.
type addressStore interface {
	GetAllAddresses(ctx context.Context) ([]Address, error)
	AddAddress(ctx context.Context, a *Address) error
	UpdateAddress(ctx context.Context, id int64, a *Address) error
	RemoveAddress(ctx context.Context, id int64) error
}

type handler struct {
	store addressStore
}

// HealthReport offers a deep look into the intricacies of app health.
type HealthReport struct {
	Status string `json:"status"`
}

// ErrorResponse reports an error.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse confirms an action that has no record to return.
type MessageResponse struct {
	Message string `json:"message"`
}

const msgAddressNotFound = "Address not found"

// ReportHealth says the service is up.
func (h *handler) ReportHealth(w http.ResponseWriter, req *http.Request) {
	report := HealthReport{Status: "so healthy right now!"}
	sendJSON(w, report)
}

// CreateAddress stores a new address and returns it with its assigned ID.
func (h *handler) CreateAddress(w http.ResponseWriter, req *http.Request) {
	address, ok := decodeAddress(w, req)
	if !ok {
		return
	}

	if err := h.store.AddAddress(req.Context(), &address); err != nil {
		sendStoreError(w, err)
		return
	}

	sendJSON(w, address)
}

// UpdateAddress overwrites the address at the path ID. Any ID in the body is ignored.
func (h *handler) UpdateAddress(w http.ResponseWriter, req *http.Request) {
	id, err := getAddressID(req)
	if err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	address, ok := decodeAddress(w, req)
	if !ok {
		return
	}

	if err := h.store.UpdateAddress(req.Context(), id, &address); err != nil {
		sendStoreError(w, err)
		return
	}

	sendJSON(w, address)
}

// DeleteAddress removes the address at the path ID.
func (h *handler) DeleteAddress(w http.ResponseWriter, req *http.Request) {
	id, err := getAddressID(req)
	if err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := h.store.RemoveAddress(req.Context(), id); err != nil {
		sendStoreError(w, err)
		return
	}

	sendJSON(w, MessageResponse{Message: "Address deleted"})
}

// GetNearbyAddresses lists every address within distance miles of the query
// point. The scan and the filter are not atomic: an address deleted between
// the two can still be listed.
func (h *handler) GetNearbyAddresses(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()

	var params [3]float64
	for i, name := range []string{"latitude", "longitude", "distance"} {
		raw := query.Get(name)
		if raw == "" {
			sendError(w, "missing query parameter "+name, http.StatusUnprocessableEntity)
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			sendError(w, "query parameter "+name+" must be a number", http.StatusUnprocessableEntity)
			return
		}
		params[i] = v
	}

	addresses, err := h.store.GetAllAddresses(req.Context())
	if err != nil {
		sendStoreError(w, err)
		return
	}

	nearby, err := WithinRadius(Point{Lat: params[0], Lon: params[1]}, params[2], addresses)
	if err != nil {
		sendError(w, "distance must be a non-negative number of miles", http.StatusUnprocessableEntity)
		return
	}

	sendJSON(w, nearby)
}

// decodeAddress reads and validates the request body, answering the client
// itself when the body is unusable.
func decodeAddress(w http.ResponseWriter, req *http.Request) (Address, bool) {
	var body addressRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		log.Println("http: decoding Address:", err)
		sendError(w, "error decoding request body as Address", http.StatusUnprocessableEntity)
		return Address{}, false
	}

	if err := body.Validate(); err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return Address{}, false
	}

	return body.address(), true
}

func getAddressID(req *http.Request) (int64, error) {
	vars := mux.Vars(req)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		return 0, errors.New("path must include an integer address ID")
	}

	return id, nil
}

func sendStoreError(w http.ResponseWriter, err error) {
	var inputErr *InputError
	switch {
	case errors.Is(err, ErrNoMatchingRecord):
		sendError(w, msgAddressNotFound, http.StatusNotFound)
	case errors.As(err, &inputErr):
		sendError(w, inputErr.Message, http.StatusUnprocessableEntity)
	default:
		log.Println(err)
		sendError(w, "server error", http.StatusInternalServerError)
	}
}

func sendError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, ErrorResponse{Message: msg}, status)
}

func sendJSON(w http.ResponseWriter, object interface{}) {
	writeJSON(w, object, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, object interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(object); err != nil {
		log.Println("http: encoding response:", err)
	}
}
