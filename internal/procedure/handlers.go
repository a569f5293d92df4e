package procedure

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pzepeda90/MedClock-sub002/pkg/monitoring"
	"github.com/pzepeda90/MedClock-sub002/pkg/rbac"
	"github.com/pzepeda90/MedClock-sub002/pkg/types"
)

// setupRoutes configures HTTP routes for the procedure service
func (s *Service) setupRoutes(router *mux.Router) {
	router.Use(s.requestIDMiddleware)
	if s.config.Monitoring.Enabled {
		router.Use(monitoring.HTTPMiddleware)
		router.Handle(s.config.Monitoring.MetricsPath, monitoring.Handler()).Methods("GET")
	}
	router.HandleFunc(s.config.Monitoring.HealthPath, s.healthCheckHandler).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.identityMiddleware)

	api.HandleFunc("/procedures", s.createProcedureHandler).Methods("POST")
	api.HandleFunc("/procedures", s.listProceduresHandler).Methods("GET")
	api.HandleFunc("/procedures/{id}", s.getProcedureHandler).Methods("GET")
	api.HandleFunc("/procedures/{id}", s.updateProcedureHandler).Methods("PUT")
	api.HandleFunc("/procedures/{id}", s.deleteProcedureHandler).Methods("DELETE")

	api.HandleFunc("/calendar/events", s.calendarEventsHandler).Methods("GET")
	api.HandleFunc("/permissions", s.permissionsHandler).Methods("GET")

	s.logger.Info("Procedure service routes configured")
}

// createProcedureHandler handles procedure creation
func (s *Service) createProcedureHandler(w http.ResponseWriter, r *http.Request) {
	var draft types.ProcedureRecord
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	record, err := s.store.Create(identityFromRequest(r), &draft)
	if err != nil {
		s.writeClinicError(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusCreated, record)
}

// listProceduresHandler handles filtered procedure queries
func (s *Service) listProceduresHandler(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	records := s.store.ApplyFilter(identityFromRequest(r), filter)
	s.writeJSONResponse(w, http.StatusOK, records)
}

// getProcedureHandler handles single procedure retrieval
func (s *Service) getProcedureHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid procedure id", err)
		return
	}

	record, err := s.store.Get(identityFromRequest(r), id)
	if err != nil {
		s.writeClinicError(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, record)
}

// updateProcedureHandler handles procedure updates
func (s *Service) updateProcedureHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid procedure id", err)
		return
	}

	var updates types.ProcedureUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	record, err := s.store.Update(identityFromRequest(r), id, &updates)
	if err != nil {
		s.writeClinicError(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, record)
}

// deleteProcedureHandler handles procedure deletion
func (s *Service) deleteProcedureHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid procedure id", err)
		return
	}

	if err := s.store.Remove(identityFromRequest(r), id); err != nil {
		s.writeClinicError(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]bool{"deleted": true})
}

// calendarEventsHandler returns the caller's procedure-derived calendar
// events; the UI merges these with independently created appointments.
func (s *Service) calendarEventsHandler(w http.ResponseWriter, r *http.Request) {
	events := s.projector.ProjectAll(identityFromRequest(r), s.store)
	s.writeJSONResponse(w, http.StatusOK, events)
}

// permissionsHandler returns the caller's capability set so UI elements
// can conditionally render edit/delete controls.
func (s *Service) permissionsHandler(w http.ResponseWriter, r *http.Request) {
	identity := identityFromRequest(r)
	s.writeJSONResponse(w, http.StatusOK, rbac.PermissionsFor(identity.Role))
}

// healthCheckHandler handles health check requests
func (s *Service) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "procedure-service",
	})
}

// filterFromQuery builds a procedure filter from query parameters
func filterFromQuery(r *http.Request) *types.ProcedureFilter {
	q := r.URL.Query()
	filter := &types.ProcedureFilter{
		PatientName:     q.Get("patient_name"),
		PatientIDNumber: q.Get("patient_id_number"),
		Status:          types.ProcedureStatus(q.Get("status")),
		Type:            types.ProcedureType(q.Get("type")),
		FromDate:        q.Get("from"),
		ToDate:          q.Get("to"),
	}
	if staffID, err := strconv.Atoi(q.Get("staff_id")); err == nil {
		filter.AssignedStaffID = staffID
	}
	return filter
}

// writeClinicError maps core error types onto HTTP status codes
func (s *Service) writeClinicError(w http.ResponseWriter, err error) {
	var ce *types.ClinicError
	if !errors.As(err, &ce) {
		s.writeErrorResponse(w, http.StatusInternalServerError, "Internal error", err)
		return
	}

	status := http.StatusInternalServerError
	switch ce.Type {
	case types.ErrorTypeAuthorization:
		status = http.StatusForbidden
	case types.ErrorTypeNotFound:
		status = http.StatusNotFound
	case types.ErrorTypeValidation:
		status = http.StatusBadRequest
	}

	s.writeJSONResponse(w, status, ce)
}

// writeJSONResponse writes a JSON response with the given status code
func (s *Service) writeJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Errorf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a generic error response
func (s *Service) writeErrorResponse(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	s.writeJSONResponse(w, status, body)
}
