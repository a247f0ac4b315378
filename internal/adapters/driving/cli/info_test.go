package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoCmd_Tables(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeSessionFile(t)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"info", path})

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Test sample")
	assert.Contains(t, out, "Spin systems:")
	assert.Contains(t, out, "13C")
}

func TestInfoCmd_JSON(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	path := writeSessionFile(t)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"info", "--json", path})

	err := rootCmd.Execute()

	require.NoError(t, err)

	var out infoOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "Test sample", out.Sample.Name)
	require.Len(t, out.Systems, 1)
	assert.Equal(t, "13C", out.Systems[0].Isotopes)
	assert.Empty(t, out.Methods)
}

func TestInfoCmd_NoDocument(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"info"})

	err := rootCmd.Execute()

	assert.Error(t, err)
}
