package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/patient"
	"github.com/carelog/carelog/modules/patients/presentation/mappers"
	"github.com/carelog/carelog/modules/patients/services"
	"github.com/carelog/carelog/pkg/application"
	"github.com/carelog/carelog/pkg/httpapi"
	"github.com/carelog/carelog/pkg/mapping"
	"github.com/carelog/carelog/pkg/middleware"
	"github.com/carelog/carelog/pkg/serrors"
	"github.com/carelog/carelog/pkg/shared"
)

type PatientAPIController struct {
	app      application.Application
	patients *services.PatientService
	basePath string
}

func NewPatientAPIController(app application.Application) application.Controller {
	return &PatientAPIController{
		app:      app,
		patients: app.Service(services.PatientService{}).(*services.PatientService),
		basePath: "/api/patients",
	}
}

func (c *PatientAPIController) Key() string {
	return c.basePath
}

func (c *PatientAPIController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.Authenticate())

	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id}", c.Update).Methods(http.MethodPut)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *PatientAPIController) List(w http.ResponseWriter, r *http.Request) {
	params, err := composableQuery(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "invalid query parameters", nil)
		return
	}

	page, err := c.patients.List(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteTaggedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":      mapping.MapViewModels(page.Items, mappers.PatientToListItem),
		"page":       page.Page,
		"pageSize":   page.PageSize,
		"totalItems": page.TotalItems,
		"totalPages": page.TotalPages,
	})
}

func (c *PatientAPIController) Create(w http.ResponseWriter, r *http.Request) {
	var dto patient.CreateDTO
	if !decodeJSON(w, r, &dto) {
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, errs)
		return
	}

	created, err := c.patients.Create(r.Context(), &dto)
	if err != nil {
		_ = httpapi.WriteTaggedError(w, err)
		return
	}

	vm := mappers.PatientToViewModel(created)
	w.Header().Set("ETag", vm.ETag)
	writeJSON(w, http.StatusCreated, vm)
}

func (c *PatientAPIController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "invalid patient id", nil)
		return
	}

	entity, err := c.patients.GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteTaggedError(w, err)
		return
	}

	vm := mappers.PatientToViewModel(entity)
	w.Header().Set("ETag", vm.ETag)
	writeJSON(w, http.StatusOK, vm)
}

func (c *PatientAPIController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "invalid patient id", nil)
		return
	}

	var dto patient.UpdateDTO
	if !decodeJSON(w, r, &dto) {
		return
	}
	if errs, ok := dto.Ok(); !ok {
		writeValidationErrors(w, errs)
		return
	}

	updated, err := c.patients.Update(r.Context(), id, &dto, r.Header.Get("If-Match"))
	if err != nil {
		_ = httpapi.WriteTaggedError(w, err)
		return
	}

	vm := mappers.PatientToViewModel(updated)
	w.Header().Set("ETag", vm.ETag)
	writeJSON(w, http.StatusOK, vm)
}

func (c *PatientAPIController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ParseUUID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "invalid patient id", nil)
		return
	}

	if _, err := c.patients.Delete(r.Context(), id); err != nil {
		_ = httpapi.WriteTaggedError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func composableQuery(r *http.Request) (*patient.FindParams, error) {
	params := &patient.FindParams{}
	if err := shared.Decoder.Decode(params, r.URL.Query()); err != nil {
		return nil, err
	}
	return params, nil
}
