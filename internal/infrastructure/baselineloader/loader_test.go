package baselineloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBaseline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"eth:0xAAA0000000000000000000000000000000000001:0xBBB0000000000000000000000000000000000002": 5.0,
		"bsc:0xaaa0000000000000000000000000000000000001:0xBBB0000000000000000000000000000000000002": 1.25,
		"malformed": 3
	}`), 0o644))

	var warned []string
	l := NewBaselineFileLoader(path, nil, func(msg string, args ...any) { warned = append(warned, msg) })
	got, err := l.GetBaseline()
	require.NoError(t, err)

	assert.Len(t, got, 3)
	assert.Equal(t, 5.0, got["eth:0xAAA0000000000000000000000000000000000001:0xBBB0000000000000000000000000000000000002"])
	assert.Equal(t, 1.25, got["bsc:0xaaa0000000000000000000000000000000000001:0xBBB0000000000000000000000000000000000002"])
	_, ok := got["bsc:0xAAA0000000000000000000000000000000000001:0xBBB0000000000000000000000000000000000002"]
	assert.False(t, ok, "keys are case-sensitive")
	assert.Len(t, warned, 1)
}

func TestGetBaseline_Errors(t *testing.T) {
	_, err := NewBaselineFileLoader(filepath.Join(t.TempDir(), "missing.json"), nil, nil).GetBaseline()
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"eth:a:b": "five"}`), 0o644))
	_, err = NewBaselineFileLoader(path, nil, nil).GetBaseline()
	assert.Error(t, err)
}
