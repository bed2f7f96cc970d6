package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/salvo/internal/adapters/blockchain"
	"github.com/trebuchet-org/salvo/internal/adapters/contracts"
	"github.com/trebuchet-org/salvo/internal/adapters/interactive"
	"github.com/trebuchet-org/salvo/internal/adapters/manifest"
	"github.com/trebuchet-org/salvo/internal/adapters/repository/ledger"
	"github.com/trebuchet-org/salvo/internal/config"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

// StorageSet provides the ledger backend and the manifest loader
var StorageSet = wire.NewSet(
	ledger.NewRepository,

	manifest.NewLoader,
	wire.Bind(new(usecase.ManifestLoader), new(*manifest.Loader)),
)

// BlockchainSet provides deploy clients backed by compiled artifacts
var BlockchainSet = wire.NewSet(
	contracts.NewArtifactStore,
	wire.Bind(new(blockchain.ArtifactSource), new(*contracts.ArtifactStore)),

	blockchain.NewClientFactory,
	wire.Bind(new(usecase.DeployClientFactory), new(*blockchain.ClientFactory)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewConfirmerAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.ConfirmerAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.NewNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	StorageSet,
	BlockchainSet,
	InteractiveSet,
	ConfigSet,
)
