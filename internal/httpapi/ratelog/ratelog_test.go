package ratelog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rate.db")
	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Record("req-1", 42, 200))
}

func TestRecordMultipleRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rate.db")
	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Record("req-1", 10, 200))
	require.NoError(t, l.Record("req-2", 20, 400))

	var count int
	row := l.db.QueryRow(`SELECT COUNT(*) FROM served_requests`)
	require.NoError(t, row.Scan(&count))
	assert.Equal(t, 2, count)
}

func TestRecordDuplicateIDFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rate.db")
	l, err := Open(path)
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.Record("dup", 1, 200))
	err = l.Record("dup", 1, 200)
	assert.Error(t, err)
}

func TestCloseThenRecordFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rate.db")
	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Close())

	err = l.Record("after-close", 1, 200)
	assert.Error(t, err)
}
