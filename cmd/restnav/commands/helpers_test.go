package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fivetwenty-io/restnav/internal/schemagen"
	"github.com/fivetwenty-io/restnav/pkg/restnav"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testListing = `GET /1/boards/[board_id]
Get a board.

GET /1/boards/[board_id]/cards
Get cards on a board.

GET /1/boards/[board_id]/cards/[filter]
Get cards matching a filter.

GET /1/batch
Batch GET requests.
`

// writeTestSchema generates a schema file from the listing above.
func writeTestSchema(t *testing.T) string {
	t.Helper()

	out, err := schemagen.Generate(newListingReader(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, out, 0600))

	return path
}

func newListingReader(t *testing.T) *os.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "listing.txt")
	require.NoError(t, os.WriteFile(path, []byte(testListing), 0600))

	file, err := os.Open(path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = file.Close() })

	return file
}

func loadCommandSchema(t *testing.T) *restnav.Schema {
	t.Helper()

	data, err := os.ReadFile(writeTestSchema(t))
	require.NoError(t, err)

	schema, err := restnav.ParseSchema(data)
	require.NoError(t, err)

	return schema
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"1", "boards", "B1"}, splitPath("/1/boards/B1/"))
	assert.Equal(t, []string{"1"}, splitPath("1"))
	assert.Nil(t, splitPath(""))
	assert.Nil(t, splitPath("///"))
}

func TestDocSummary(t *testing.T) {
	assert.Equal(t, "Get a board.", docSummary("GET /1/boards/[board_id]\n\nGet a board.\nMore text."))
	assert.Equal(t, "GET /1/batch", docSummary("GET /1/batch"))
	assert.Equal(t, "", docSummary(""))
}

func TestDescend(t *testing.T) {
	schema := loadCommandSchema(t)

	root, err := restnav.New(schema, "1", "APIKEY")
	require.NoError(t, err)

	t.Run("static child", func(t *testing.T) {
		nav, err := descend(root, "boards")
		require.NoError(t, err)
		assert.Equal(t, "1/boards", nav.URL())
	})

	t.Run("bare value binds the single keyword", func(t *testing.T) {
		boards, err := descend(root, "boards")
		require.NoError(t, err)

		nav, err := descend(boards, "B1")
		require.NoError(t, err)
		assert.Equal(t, "1/boards/B1", nav.URL())
	})

	t.Run("explicit keyword binding", func(t *testing.T) {
		boards, err := descend(root, "boards")
		require.NoError(t, err)

		nav, err := descend(boards, "board_id=B1")
		require.NoError(t, err)
		assert.Equal(t, "1/boards/B1", nav.URL())
	})

	t.Run("unknown segment with no keywords", func(t *testing.T) {
		_, err := descend(root, "bogus")
		require.Error(t, err)
		assert.True(t, restnav.IsUnknownPath(err))
	})

	t.Run("malformed binding", func(t *testing.T) {
		boards, err := descend(root, "boards")
		require.NoError(t, err)

		_, err = descend(boards, "board_id=")
		require.ErrorIs(t, err, ErrBadParamBinding)
	})
}

func TestNavigate(t *testing.T) {
	viper.Set("schema", writeTestSchema(t))
	t.Cleanup(func() { viper.Set("schema", "") })

	schema, err := loadSchema()
	require.NoError(t, err)

	nav, err := navigate(schema, "1/boards/B1/cards")
	require.NoError(t, err)
	assert.Equal(t, "1/boards/B1/cards", nav.URL())

	// Chained parameters resolve too: the cards node declares a filter
	// keyword.
	nav, err = navigate(schema, "1/boards/B1/cards/filter=open")
	require.NoError(t, err)
	assert.Equal(t, "1/boards/B1/cards/open", nav.URL())

	_, err = navigate(schema, "")
	require.ErrorIs(t, err, ErrEmptyPath)

	_, err = navigate(schema, "9/boards")
	require.ErrorIs(t, err, restnav.ErrUnknownVersion)
}
