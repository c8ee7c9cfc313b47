package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fivetwenty-io/restnav/pkg/restnav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCommand_FileToFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "listing.txt")
	output := filepath.Join(dir, "endpoints.yaml")

	require.NoError(t, os.WriteFile(input, []byte(testListing), 0600))

	cmd := NewGenerateCommand()
	cmd.SetArgs([]string{"-i", input, "-o", output})
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	schema, err := restnav.ParseSchema(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, schema.Versions())
}

func TestGenerateCommand_StdinToStdout(t *testing.T) {
	cmd := NewGenerateCommand()

	var out bytes.Buffer

	cmd.SetIn(bytes.NewReader([]byte(testListing)))
	cmd.SetOut(&out)
	cmd.SetArgs(nil)

	require.NoError(t, cmd.Execute())

	schema, err := restnav.ParseSchema(out.Bytes())
	require.NoError(t, err)

	root, err := schema.Version("1")
	require.NoError(t, err)
	assert.Contains(t, root.ChildNames(), "boards")
	assert.Contains(t, root.ChildNames(), "batch")
}
