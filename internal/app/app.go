package app

import (
	"github.com/trebuchet-org/salvo/internal/domain/config"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Confirmer     usecase.Confirmer
	ClientFactory usecase.DeployClientFactory

	// Use cases
	RunDeployment *usecase.RunDeployment
	ShowPlan      *usecase.ShowPlan
	ShowStatus    *usecase.ShowStatus
	ListNetworks  *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	confirmer usecase.Confirmer,
	clientFactory usecase.DeployClientFactory,
	runDeployment *usecase.RunDeployment,
	showPlan *usecase.ShowPlan,
	showStatus *usecase.ShowStatus,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:        cfg,
		Confirmer:     confirmer,
		ClientFactory: clientFactory,
		RunDeployment: runDeployment,
		ShowPlan:      showPlan,
		ShowStatus:    showStatus,
		ListNetworks:  listNetworks,
	}, nil
}
