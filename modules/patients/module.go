package patients

import (
	"github.com/carelog/carelog/modules/patients/infrastructure/persistence"
	"github.com/carelog/carelog/modules/patients/presentation/controllers"
	"github.com/carelog/carelog/modules/patients/services"
	"github.com/carelog/carelog/pkg/application"
)

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	patientRepo := persistence.NewPatientRepository()
	visitRepo := persistence.NewVisitRepository()

	visits := services.NewVisitService(visitRepo, patientRepo, app.EventPublisher())
	patients := services.NewPatientService(patientRepo, visits, app.EventPublisher())

	app.RegisterServices(
		patients,
		visits,
	)

	app.RegisterControllers(
		controllers.NewPatientAPIController(app),
		controllers.NewVisitAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "patients"
}
