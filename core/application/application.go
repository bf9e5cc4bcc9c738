package application

import (
	"github.com/mudler/LocalSD/core/config"
	"github.com/mudler/LocalSD/pkg/model"
)

type Application struct {
	modelLoader       *model.Loader
	applicationConfig *config.ApplicationConfig
}

func newApplication(appConfig *config.ApplicationConfig) *Application {
	return &Application{
		modelLoader:       model.NewLoader(),
		applicationConfig: appConfig,
	}
}

func (a *Application) ModelLoader() *model.Loader {
	return a.modelLoader
}

func (a *Application) ApplicationConfig() *config.ApplicationConfig {
	return a.applicationConfig
}
