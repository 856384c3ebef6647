package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/visit"
	"github.com/carelog/carelog/modules/patients/presentation/mappers"
	"github.com/carelog/carelog/modules/patients/services"
	"github.com/carelog/carelog/pkg/application"
	"github.com/carelog/carelog/pkg/httpapi"
	"github.com/carelog/carelog/pkg/mapping"
	"github.com/carelog/carelog/pkg/middleware"
	"github.com/carelog/carelog/pkg/serrors"
	"github.com/carelog/carelog/pkg/shared"
)

type VisitAPIController struct {
	app    application.Application
	visits *services.VisitService
}

func NewVisitAPIController(app application.Application) application.Controller {
	return &VisitAPIController{
		app:    app,
		visits: app.Service(services.VisitService{}).(*services.VisitService),
	}
}

func (c *VisitAPIController) Key() string {
	return "/api/visits"
}

func (c *VisitAPIController) Register(r *mux.Router) {
	nested := r.PathPrefix("/api/patients/{id}/visits").Subrouter()
	nested.Use(middleware.Authenticate())
	nested.HandleFunc("", c.ListByPatient).Methods(http.MethodGet)
	nested.HandleFunc("", c.Create).Methods(http.MethodPost)

	router := r.PathPrefix("/api/visits").Subrouter()
	router.Use(middleware.Authenticate())
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *VisitAPIController) ListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := shared.ParseUUID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "invalid patient id", nil)
		return
	}

	visits, err := c.visits.GetByPatient(r.Context(), patientID)
	if err != nil {
		_ = httpapi.WriteTaggedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": mapping.MapViewModels(visits, mappers.VisitToViewModel),
	})
}

func (c *VisitAPIController) Create(w http.ResponseWriter, r *http.Request) {
	patientID, err := shared.ParseUUID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "invalid patient id", nil)
		return
	}

	var dto visit.CreateDTO
	if !decodeJSON(w, r, &dto) {
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, errs)
		return
	}

	created, err := c.visits.Create(r.Context(), patientID, &dto)
	if err != nil {
		_ = httpapi.WriteTaggedError(w, err)
		return
	}

	vm := mappers.VisitToViewModel(created)
	w.Header().Set("ETag", vm.ETag)
	writeJSON(w, http.StatusCreated, vm)
}

func (c *VisitAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "invalid visit id", nil)
		return
	}

	var dto visit.UpdateDTO
	if !decodeJSON(w, r, &dto) {
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, errs)
		return
	}

	updated, err := c.visits.Update(r.Context(), id, &dto, r.Header.Get("If-Match"))
	if err != nil {
		_ = httpapi.WriteTaggedError(w, err)
		return
	}

	vm := mappers.VisitToViewModel(updated)
	w.Header().Set("ETag", vm.ETag)
	writeJSON(w, http.StatusOK, vm)
}

func (c *VisitAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "invalid visit id", nil)
		return
	}

	if _, err := c.visits.Delete(r.Context(), id); err != nil {
		_ = httpapi.WriteTaggedError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
