package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pnl_checker/internal/domain/entity"
	"pnl_checker/internal/infrastructure/configloader"
	"pnl_checker/internal/infrastructure/network/client"
	networkdefinition "pnl_checker/internal/infrastructure/network/definition"
	"pnl_checker/internal/pkg/metrics"
)

type staticBaseline struct {
	baseline map[string]float64
	err      error
}

func (b staticBaseline) GetBaseline() (map[string]float64, error) { return b.baseline, b.err }

type captureEmitter struct {
	reports []entity.PnLReport
	err     error
}

func (e *captureEmitter) Emit(_ context.Context, report entity.PnLReport) error {
	e.reports = append(e.reports, report)
	return e.err
}

type memorySnapshots struct {
	saved map[string][]entity.BalanceRecord
}

func (m *memorySnapshots) Save(runID string, records []entity.BalanceRecord) error {
	if m.saved == nil {
		m.saved = map[string][]entity.BalanceRecord{}
	}
	m.saved[runID] = records
	return nil
}

func (m *memorySnapshots) LatestBaseline() (map[string]float64, bool, error) { return nil, false, nil }

// newBalanceServer answers every eth_call with two ether.
func newBalanceServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"jsonrpc":"2.0","id":1,"result":"0x1bc16d674ec80000"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestPnLService(t *testing.T, chains []entity.ChainConfig, baseline staticBaseline, emitter *captureEmitter, snapshots *memorySnapshots, sortRecords bool) *PnLServiceImpl {
	t.Helper()
	noop := func(string, ...any) {}
	cfg := &configloader.Config{RPCClient: configloader.RPCClientConfig{Transport: configloader.TransportGeth}}
	deps := PnLServiceDeps{
		Chains:    networkdefinition.NewChainRegistry(nopLogger{}, chains),
		Balances:  NewBalanceService(client.NewEVMClientProvider(cfg, zap.NewNop(), noop, noop, noop), nopLogger{}, 0, ""),
		Baseline:  baseline,
		Emitter:   emitter,
		Logger:    nopLogger{},
	}
	if snapshots != nil {
		deps.Snapshots = snapshots
	}
	return NewPnLService(deps, []string{walletA}, []string{tokenX}, sortRecords).(*PnLServiceImpl)
}

func TestRunEndToEnd(t *testing.T) {
	srv := newBalanceServer(t)
	emitter := &captureEmitter{}
	snapshots := &memorySnapshots{}
	baseline := staticBaseline{baseline: map[string]float64{entity.CompositeKey("eth", walletA, tokenX): 5.0}}

	svc := newTestPnLService(t, []entity.ChainConfig{{Name: "eth", RPCURL: srv.URL}}, baseline, emitter, snapshots, false)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Records, 1)
	rec := report.Records[0]
	assert.Equal(t, "eth", rec.Chain)
	assert.InDelta(t, 2.0, rec.Quantity, 1e-12)
	assert.Equal(t, 5.0, rec.BaseQuantity)
	assert.InDelta(t, -3.0, rec.Diff, 1e-12)
	assert.True(t, rec.BaselineKnown)

	assert.NotEmpty(t, report.RunID)
	require.Len(t, emitter.reports, 1)
	assert.Equal(t, report, emitter.reports[0])
	require.Contains(t, snapshots.saved, report.RunID)
	assert.Len(t, snapshots.saved[report.RunID], 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReportRecords))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.UnknownBaselines))
}

func TestRunUnreachableChainKeepsOthers(t *testing.T) {
	srv := newBalanceServer(t)
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	chains := []entity.ChainConfig{
		{Name: "dead", RPCURL: deadURL},
		{Name: "eth", RPCURL: srv.URL},
		{Name: "bsc", RPCURL: srv.URL},
	}
	svc := newTestPnLService(t, chains, staticBaseline{baseline: map[string]float64{}}, &captureEmitter{}, nil, true)
	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Records, 2)
	assert.Equal(t, "bsc", report.Records[0].Chain)
	assert.Equal(t, "eth", report.Records[1].Chain)
	for _, r := range report.Records {
		assert.False(t, r.BaselineKnown)
		assert.InDelta(t, r.Quantity, r.Diff, 1e-12)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.UnknownBaselines))
}

func TestRunBaselineErrorStopsBeforeQuerying(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	emitter := &captureEmitter{}
	svc := newTestPnLService(t, []entity.ChainConfig{{Name: "eth", RPCURL: srv.URL}},
		staticBaseline{err: errors.New("bad baseline")}, emitter, nil, false)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, hits.Load())
	assert.Empty(t, emitter.reports)
}

func TestRunEmitErrorIsReturned(t *testing.T) {
	srv := newBalanceServer(t)
	emitter := &captureEmitter{err: errors.New("disk full")}
	snapshots := &memorySnapshots{}
	svc := newTestPnLService(t, []entity.ChainConfig{{Name: "eth", RPCURL: srv.URL}},
		staticBaseline{baseline: map[string]float64{}}, emitter, snapshots, false)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, snapshots.saved)
}

func TestBuildReportDoesNotEmit(t *testing.T) {
	srv := newBalanceServer(t)
	emitter := &captureEmitter{}
	snapshots := &memorySnapshots{}
	svc := newTestPnLService(t, []entity.ChainConfig{{Name: "eth", RPCURL: srv.URL}},
		staticBaseline{baseline: map[string]float64{}}, emitter, snapshots, false)

	report, err := svc.BuildReport(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Records, 1)
	assert.Empty(t, emitter.reports)
	assert.Empty(t, snapshots.saved)
}

// overlapEmitter records the highest number of Emit calls in flight at once.
type overlapEmitter struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	calls    atomic.Int32
}

func (e *overlapEmitter) Emit(context.Context, entity.PnLReport) error {
	n := e.inFlight.Add(1)
	defer e.inFlight.Add(-1)
	for {
		seen := e.maxSeen.Load()
		if n <= seen || e.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	e.calls.Add(1)
	time.Sleep(20 * time.Millisecond)
	return nil
}

func TestRunIsSerialized(t *testing.T) {
	srv := newBalanceServer(t)
	svc := newTestPnLService(t, []entity.ChainConfig{{Name: "eth", RPCURL: srv.URL}},
		staticBaseline{baseline: map[string]float64{}}, &captureEmitter{}, nil, false)
	emitter := &overlapEmitter{}
	svc.emitter = emitter

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Run(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 6, emitter.calls.Load())
	assert.EqualValues(t, 1, emitter.maxSeen.Load())
}
