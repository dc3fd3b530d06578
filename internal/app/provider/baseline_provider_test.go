package provider

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pnl_checker/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type stubSnapshots struct {
	baseline map[string]float64
	found    bool
	err      error
}

func (s stubSnapshots) Save(string, []entity.BalanceRecord) error { return nil }

func (s stubSnapshots) LatestBaseline() (map[string]float64, bool, error) {
	return s.baseline, s.found, s.err
}

func TestBaselineProviderPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"eth:0xa:0xb": 5}`), 0o644))

	snapshots := stubSnapshots{baseline: map[string]float64{"eth:0xa:0xb": 1}, found: true}
	baseline, err := NewBaselineProvider(path, snapshots, nopLogger{}).GetBaseline()
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"eth:0xa:0xb": 5}, baseline)
}

func TestBaselineProviderFileError(t *testing.T) {
	_, err := NewBaselineProvider(filepath.Join(t.TempDir(), "missing.json"), nil, nopLogger{}).GetBaseline()
	assert.Error(t, err)
}

func TestBaselineProviderFallsBackToSnapshot(t *testing.T) {
	snapshots := stubSnapshots{baseline: map[string]float64{"eth:0xa:0xb": 1.25}, found: true}
	baseline, err := NewBaselineProvider("", snapshots, nopLogger{}).GetBaseline()
	require.NoError(t, err)
	assert.Equal(t, 1.25, baseline["eth:0xa:0xb"])
}

func TestBaselineProviderEmpty(t *testing.T) {
	baseline, err := NewBaselineProvider("", stubSnapshots{}, nopLogger{}).GetBaseline()
	require.NoError(t, err)
	assert.Empty(t, baseline)

	baseline, err = NewBaselineProvider("", nil, nopLogger{}).GetBaseline()
	require.NoError(t, err)
	assert.NotNil(t, baseline)
}

func TestBaselineProviderSnapshotError(t *testing.T) {
	_, err := NewBaselineProvider("", stubSnapshots{err: errors.New("corrupt wal")}, nopLogger{}).GetBaseline()
	assert.EqualError(t, err, "corrupt wal")
}
