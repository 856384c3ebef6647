package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/carelog/carelog/modules/recommendations/domain/entities/recommendation"
	"github.com/carelog/carelog/modules/recommendations/services"
	"github.com/carelog/carelog/pkg/application"
	"github.com/carelog/carelog/pkg/httpapi"
	"github.com/carelog/carelog/pkg/mapping"
	"github.com/carelog/carelog/pkg/middleware"
	"github.com/carelog/carelog/pkg/serrors"
	"github.com/carelog/carelog/pkg/shared"
)

type recommendationVM struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
	Content   string `json:"content"`
	Model     string `json:"model"`
	CreatedAt string `json:"createdAt"`
}

type RecommendationAPIController struct {
	app             application.Application
	recommendations *services.RecommendationService
	basePath        string
}

func NewRecommendationAPIController(app application.Application) application.Controller {
	return &RecommendationAPIController{
		app:             app,
		recommendations: app.Service(services.RecommendationService{}).(*services.RecommendationService),
		basePath:        "/api/patients/{id}/recommendations",
	}
}

func (c *RecommendationAPIController) Key() string {
	return c.basePath
}

func (c *RecommendationAPIController) Register(r *mux.Router) {
	authenticate := middleware.Authenticate()
	r.Handle("/api/patients/{id}/recommendations:generate",
		authenticate(http.HandlerFunc(c.Generate))).Methods(http.MethodPost)
	r.Handle("/api/patients/{id}/recommendations",
		authenticate(http.HandlerFunc(c.ListByPatient))).Methods(http.MethodGet)
}

func (c *RecommendationAPIController) ListByPatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := shared.ParseUUID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "invalid patient id", nil)
		return
	}

	items, err := c.recommendations.GetByPatient(r.Context(), patientID)
	if err != nil {
		_ = httpapi.WriteTaggedError(w, err)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"items": mapping.MapViewModels(items, toViewModel),
	})
}

func (c *RecommendationAPIController) Generate(w http.ResponseWriter, r *http.Request) {
	patientID, err := shared.ParseUUID(r)
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, serrors.Code(serrors.KindInvalidArgument), "invalid patient id", nil)
		return
	}

	created, err := c.recommendations.Generate(r.Context(), patientID)
	if err != nil {
		_ = httpapi.WriteTaggedError(w, err)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusCreated, toViewModel(created))
}

func toViewModel(rec recommendation.Recommendation) *recommendationVM {
	return &recommendationVM{
		ID:        rec.ID().String(),
		PatientID: rec.PatientID().String(),
		Content:   rec.Content(),
		Model:     rec.Model(),
		CreatedAt: rec.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
}
