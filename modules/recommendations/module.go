package recommendations

import (
	patientservices "github.com/carelog/carelog/modules/patients/services"
	"github.com/carelog/carelog/modules/recommendations/infrastructure/llm"
	"github.com/carelog/carelog/modules/recommendations/infrastructure/persistence"
	"github.com/carelog/carelog/modules/recommendations/presentation/controllers"
	"github.com/carelog/carelog/modules/recommendations/services"
	"github.com/carelog/carelog/pkg/application"
	"github.com/carelog/carelog/pkg/configuration"
)

// NewModule must be registered after the patients module, whose services it
// consumes.
func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	patients := app.Service(patientservices.PatientService{}).(*patientservices.PatientService)
	visits := app.Service(patientservices.VisitService{}).(*patientservices.VisitService)

	app.RegisterServices(
		services.NewRecommendationService(
			persistence.NewRecommendationRepository(),
			patients,
			visits,
			llm.NewOpenAIGenerator(conf.OpenAIKey, conf.OpenAIModel),
			app.EventPublisher(),
		),
	)

	app.RegisterControllers(
		controllers.NewRecommendationAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "recommendations"
}
