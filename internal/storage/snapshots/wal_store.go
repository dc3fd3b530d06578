package snapshots

import (
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"pnl_checker/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultSnapshotDir = "./wal/snapshots"
	segmentPrefix      = "snapshot_"
	segmentThreshold   = 1000
	maxSegments        = 100
	runKeyPrefix       = "pnl_snapshot_"
)

var (
	errNotInitialized = errors.New("pnl snapshot store is not initialized")
	errEmptyRunID     = errors.New("pnl snapshot run id is required")
)

// WALStore keeps one WAL entry per run: the decoded balances it observed, keyed like the baseline.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
	now func() time.Time
}

// NewWALStore opens (or creates) the snapshot WAL in dir. Existing segments are replayed by gowal.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultSnapshotDir
	}

	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           segmentPrefix,
		SegmentThreshold: segmentThreshold,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open pnl snapshot WAL in %s", dir)
	}
	return &WALStore{wal: wal, now: time.Now}, nil
}

func runKey(runID string) string {
	return runKeyPrefix + runID
}

func (s *WALStore) ready() error {
	if s == nil || s.wal == nil {
		return errNotInitialized
	}
	return nil
}

// Save implements port.SnapshotStore.
func (s *WALStore) Save(runID string, records []entity.BalanceRecord) error {
	if err := s.ready(); err != nil {
		return err
	}
	if runID == "" {
		return errEmptyRunID
	}

	payload, err := json.Marshal(entity.NewBalanceSnapshot(runID, s.now().UTC(), records))
	if err != nil {
		return errors.Wrapf(err, "encode snapshot of run %s", runID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(idx, runKey(runID), payload); err != nil {
		return errors.Wrapf(err, "append snapshot of run %s at index %d", runID, idx)
	}
	return nil
}

// Latest walks the WAL backwards and returns the newest run snapshot.
// Entries that fail gowal's checksum are skipped; an undecodable payload is an error.
func (s *WALStore) Latest() (entity.BalanceSnapshot, bool, error) {
	if err := s.ready(); err != nil {
		return entity.BalanceSnapshot{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for idx := s.wal.CurrentIndex(); idx > 0; idx-- {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, runKeyPrefix) {
			continue
		}

		var snapshot entity.BalanceSnapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return entity.BalanceSnapshot{}, false, errors.Wrapf(err, "decode snapshot at index %d", idx)
		}
		return snapshot, true, nil
	}
	return entity.BalanceSnapshot{}, false, nil
}

// LatestBaseline implements port.SnapshotStore.
func (s *WALStore) LatestBaseline() (map[string]float64, bool, error) {
	snapshot, found, err := s.Latest()
	if err != nil || !found {
		return nil, found, err
	}
	if snapshot.Balances == nil {
		return map[string]float64{}, true, nil
	}
	return snapshot.Balances, true, nil
}

// CurrentIndex returns the index of the last WAL entry, 0 for an empty or closed store.
func (s *WALStore) CurrentIndex() uint64 {
	if s.ready() != nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wal.CurrentIndex()
}

// Close flushes and closes the WAL.
func (s *WALStore) Close() error {
	if err := s.ready(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wal.Close()
}
