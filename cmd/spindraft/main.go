// Command spindraft is the entry point for the spindraft CLI. It wires
// the driven adapters into the core services and hands control to the
// command tree.
package main

import (
	"fmt"
	"os"

	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driven/config/file"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driven/csdm"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driven/examples"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driven/fetch"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driven/simfit"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driven/storage/memory"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driven/storage/sqlite"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driving/cli"
	"github.com/spindraft-labs/spindraft-cli/internal/core/ports/driven"
	"github.com/spindraft-labs/spindraft-cli/internal/core/services"
	"github.com/spindraft-labs/spindraft-cli/internal/logger"
)

// version is overridden at build time via
// -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("config store unavailable: %v", err)
	}

	library, err := examples.NewLibrary()
	if err != nil {
		return fmt.Errorf("loading example library: %w", err)
	}

	store, closeStore := newSessionStore(cfg)
	defer closeStore()

	importer := services.NewImporter(fetch.NewFetcher(), library)
	router := services.NewRouter(importer, csdm.NewDecoder())
	session := services.NewSession(router, store)

	var runner driven.FitRunner
	if cfg != nil {
		if url := cfg.GetString("fit.service_url"); url != "" {
			runner = simfit.NewHTTPRunner(url)
		}
	}

	cli.SetServices(&cli.Services{
		Session:   session,
		FieldSync: services.NewFieldSync(session),
		Fit:       services.NewFitSession(session, simfit.NewBuilder(), runner),
		Pipeline:  services.NewPipeline(session),
		Examples:  library,
		Store:     store,
	})
	cli.SetVersion(version)

	return cli.Execute()
}

// newSessionStore opens the configured session store. SQLite is the
// default; failures fall back to the in-memory store so the CLI stays
// usable without persistence.
func newSessionStore(cfg *file.ConfigStore) (driven.SessionStore, func()) {
	backend := "sqlite"
	dataDir := ""
	if cfg != nil {
		if b := cfg.GetString("storage.backend"); b != "" {
			backend = b
		}
		dataDir = cfg.GetString("storage.data_dir")
	}

	if backend == "memory" {
		return memory.NewSessionStore(), func() {}
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		logger.Warn("session store unavailable, falling back to memory: %v", err)
		return memory.NewSessionStore(), func() {}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing session store: %v", err)
		}
	}
}
