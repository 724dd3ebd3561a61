package migration

import (
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/supanext/cli/internal/errors"
)

func TestFindLatest(t *testing.T) {
	fs := memfs.New()
	files := []string{
		"20240101000000_init_schema.sql",
		"20240301120000_init_schema.sql",
		"20240401000000_add_profiles.sql",
		"20240201000000_init_schema.sql.bak",
	}
	for _, f := range files {
		require.NoError(t, util.WriteFile(fs, Dir+"/"+f, []byte("-- "+f), 0o644))
	}

	got, err := FindLatest(fs, Dir, "init_schema")
	require.NoError(t, err)
	assert.Equal(t, Dir+"/20240301120000_init_schema.sql", got)
}

func TestFindLatest_NoMatch(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		fs := memfs.New()
		require.NoError(t, fs.MkdirAll(Dir, 0o755))

		_, err := FindLatest(fs, Dir, "init_schema")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := FindLatest(memfs.New(), Dir, "init_schema")
		assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	})
}

func TestReplaceLatest(t *testing.T) {
	fs := memfs.New()
	others := map[string]string{
		Dir + "/20230101000000_init_schema.sql": "-- older",
		Dir + "/20240101000000_seed.sql":        "insert into t values (1);",
		Dir + "/README.md":                      "notes",
	}
	for p, c := range others {
		require.NoError(t, util.WriteFile(fs, p, []byte(c), 0o644))
	}
	target := Dir + "/20240501093000_init_schema.sql"
	require.NoError(t, util.WriteFile(fs, target, []byte("-- generated placeholder\n"), 0o644))

	body := []byte("create table profiles (id uuid primary key);\n")
	got, err := ReplaceLatest(fs, Dir, "init_schema", body)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	data, err := util.ReadFile(fs, target)
	require.NoError(t, err)
	assert.Equal(t, string(body), string(data), "body is replaced, not appended")

	for p, c := range others {
		data, err := util.ReadFile(fs, p)
		require.NoError(t, err)
		assert.Equal(t, c, string(data), "%s untouched", p)
	}
}
