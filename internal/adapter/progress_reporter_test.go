package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-seeder/internal/domain"
)

// memoryRunStore is an in-process domain.RunStore.
type memoryRunStore struct {
	hashes map[string]map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newMemoryRunStore() *memoryRunStore {
	return &memoryRunStore{hashes: map[string]map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryRunStore) Ping(context.Context) error { return m.err }

func (m *memoryRunStore) PutField(_ context.Context, key, field, value string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	if m.hashes[key] == nil {
		m.hashes[key] = map[string]string{}
	}
	m.hashes[key][field] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memoryRunStore) Fields(_ context.Context, key string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := map[string]string{}
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func TestStoreProgressReporter_ReportAndSnapshot(t *testing.T) {
	store := newMemoryRunStore()
	fixed := time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC)
	reporter := NewStoreProgressReporter(store, 24*time.Hour)
	reporter.now = func() time.Time { return fixed }
	ctx := context.Background()

	require.NoError(t, reporter.Report(ctx, domain.TierProgress{
		RunID: "r", Difficulty: domain.DifficultyEasy, Phase: domain.PhaseDone, Target: 200, Generated: 200, Inserted: 200,
	}))
	require.NoError(t, reporter.Report(ctx, domain.TierProgress{
		RunID: "r", Difficulty: domain.DifficultyHard, Phase: domain.PhaseFailed, Target: 150, Generated: 150, Inserted: 20,
		Error: domain.NewPersistenceError("insert batch 2 of 8", errors.New("duplicate key")),
	}))

	assert.Equal(t, 24*time.Hour, store.ttls["quizseed:seed:run:r"])
	require.Len(t, store.hashes["quizseed:seed:run:r"], 2)

	snap, err := reporter.Snapshot(ctx, "r")
	require.NoError(t, err)
	require.Len(t, snap, 2)

	easy := snap[domain.DifficultyEasy]
	assert.Equal(t, domain.PhaseDone, easy.Phase)
	assert.Equal(t, 200, easy.Inserted)
	assert.Equal(t, fixed, easy.UpdatedAt)
	assert.Nil(t, easy.Error)

	hard := snap[domain.DifficultyHard]
	assert.Equal(t, domain.PhaseFailed, hard.Phase)
	require.NotNil(t, hard.Error)
	assert.Equal(t, domain.ErrPersistence, hard.Error.Code)
	assert.Equal(t, "insert batch 2 of 8: duplicate key", hard.Error.Message)
}

func TestStoreProgressReporter_LatestPhaseWins(t *testing.T) {
	store := newMemoryRunStore()
	reporter := NewStoreProgressReporter(store, 0)
	ctx := context.Background()

	for _, phase := range []domain.SeedPhase{domain.PhasePending, domain.PhaseGenerating, domain.PhaseInserting} {
		require.NoError(t, reporter.Report(ctx, domain.TierProgress{RunID: "r", Difficulty: domain.DifficultyMedium, Phase: phase}))
	}

	snap, err := reporter.Snapshot(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseInserting, snap[domain.DifficultyMedium].Phase)
}

func TestStoreProgressReporter_StoreErrors(t *testing.T) {
	store := newMemoryRunStore()
	store.err = errors.New("READONLY")
	reporter := NewStoreProgressReporter(store, time.Hour)

	err := reporter.Report(context.Background(), domain.TierProgress{RunID: "r", Difficulty: domain.DifficultyEasy})
	assert.ErrorIs(t, err, store.err)

	_, err = reporter.Snapshot(context.Background(), "r")
	assert.ErrorIs(t, err, store.err)
}

func TestStoreProgressReporter_CorruptField(t *testing.T) {
	store := newMemoryRunStore()
	store.hashes["quizseed:seed:run:r"] = map[string]string{"easy": "{not json"}
	reporter := NewStoreProgressReporter(store, 0)

	_, err := reporter.Snapshot(context.Background(), "r")
	assert.ErrorContains(t, err, "decode progress for easy")
}

func TestStoreProgressReporter_Redis(t *testing.T) {
	db, mock := redismock.NewClientMock()
	fixed := time.Date(2025, 11, 5, 10, 0, 0, 0, time.UTC)
	reporter := NewStoreProgressReporter(NewRedisRunStore(db), 24*time.Hour)
	reporter.now = func() time.Time { return fixed }

	progress := domain.TierProgress{
		RunID:      "01JB0000000000000000000000",
		Difficulty: domain.DifficultyMedium,
		Phase:      domain.PhaseInserting,
		Target:     200,
		Generated:  198,
		Inserted:   40,
	}
	stored := progress
	stored.UpdatedAt = fixed
	payload, err := json.Marshal(stored)
	require.NoError(t, err)

	key := "quizseed:seed:run:01JB0000000000000000000000"
	mock.ExpectTxPipeline()
	mock.ExpectHSet(key, "medium", string(payload)).SetVal(1)
	mock.ExpectExpire(key, 24*time.Hour).SetVal(true)
	mock.ExpectTxPipelineExec()

	require.NoError(t, reporter.Report(context.Background(), progress))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnectProgressReporter(t *testing.T) {
	t.Run("Reachable", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		mock.ExpectPing().SetVal("PONG")

		reporter, err := ConnectProgressReporter(context.Background(), NewRedisRunStore(db), time.Hour)
		require.NoError(t, err)
		assert.Equal(t, time.Hour, reporter.ttl)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unreachable", func(t *testing.T) {
		store := newMemoryRunStore()
		store.err = errors.New("connection refused")

		reporter, err := ConnectProgressReporter(context.Background(), store, time.Hour)
		assert.Nil(t, reporter)
		assert.ErrorIs(t, err, store.err)
	})
}

func TestNopProgressReporter(t *testing.T) {
	var r domain.ProgressReporter = NopProgressReporter{}
	assert.NoError(t, r.Report(context.Background(), domain.TierProgress{}))
	snap, err := r.Snapshot(context.Background(), "any")
	assert.NoError(t, err)
	assert.Empty(t, snap)
}
