package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driven/examples"
	"github.com/spindraft-labs/spindraft-cli/internal/adapters/driven/storage/memory"
	"github.com/spindraft-labs/spindraft-cli/internal/core/services"
)

// setupTestServices wires real core services over in-memory adapters and
// returns a cleanup that restores the package-level service variables.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	prev := &Services{
		Session:   sessionService,
		FieldSync: fieldSyncService,
		Fit:       fitService,
		Pipeline:  pipelineService,
		Examples:  exampleLibrary,
		Store:     sessionStore,
	}

	library, err := examples.NewLibrary()
	require.NoError(t, err)

	store := memory.NewSessionStore()
	importer := services.NewImporter(nil, library)
	router := services.NewRouter(importer, nil)
	session := services.NewSession(router, store)

	SetServices(&Services{
		Session:   session,
		FieldSync: services.NewFieldSync(session),
		Pipeline:  services.NewPipeline(session),
		Examples:  library,
		Store:     store,
	})

	return func() {
		SetServices(prev)
		rootCmd.SetArgs(nil)
		importURL = ""
		importExample = ""
		importAdd = false
		infoJSON = false
		exportOutput = ""
		openWatch = false
	}
}

// writeFile writes arbitrary contents to a temp file and returns its path.
func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// writeSessionFile writes a minimal valid session file and returns its path.
func writeSessionFile(t *testing.T) string {
	t.Helper()

	doc := map[string]any{
		"name":        "Test sample",
		"description": "one carbon site",
		"spin_systems": []any{
			map[string]any{
				"abundance": 100.0,
				"sites": []any{
					map[string]any{
						"isotope":                  "13C",
						"isotropic_chemical_shift": "10 ppm",
					},
				},
			},
		},
		"methods": []any{},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sample.mrsim")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
