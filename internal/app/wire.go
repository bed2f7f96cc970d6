//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/salvo/internal/adapters"
	"github.com/trebuchet-org/salvo/internal/config"
	"github.com/trebuchet-org/salvo/internal/logging"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewLedger,
		usecase.NewResolvePlan,
		usecase.NewExecuteArtifact,
		usecase.NewRunDeployment,
		usecase.NewShowPlan,
		usecase.NewShowStatus,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil, nil
}
