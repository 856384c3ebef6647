package modules

import (
	"github.com/carelog/carelog/modules/patients"
	"github.com/carelog/carelog/modules/recommendations"
	"github.com/carelog/carelog/pkg/application"
)

// BuiltInModules is ordered: recommendations resolves patient services out
// of the registry during Register.
var BuiltInModules = []application.Module{
	patients.NewModule(),
	recommendations.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
