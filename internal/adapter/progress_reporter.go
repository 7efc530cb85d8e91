package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quiz-seeder/internal/cache"
	"quiz-seeder/internal/domain"
)

var (
	_ domain.ProgressReporter = (*StoreProgressReporter)(nil)
	_ domain.ProgressReporter = NopProgressReporter{}
)

// StoreProgressReporter stores tier progress as JSON in one hash per run,
// with a field per difficulty.
type StoreProgressReporter struct {
	store domain.RunStore
	ttl   time.Duration
	now   func() time.Time
}

// NewStoreProgressReporter creates a reporter. A zero ttl keeps run hashes forever.
func NewStoreProgressReporter(store domain.RunStore, ttl time.Duration) *StoreProgressReporter {
	return &StoreProgressReporter{store: store, ttl: ttl, now: time.Now}
}

// storePingTimeout bounds the reachability check in ConnectProgressReporter.
const storePingTimeout = 5 * time.Second

// ConnectProgressReporter checks that store answers before handing back a reporter.
func ConnectProgressReporter(ctx context.Context, store domain.RunStore, ttl time.Duration) (*StoreProgressReporter, error) {
	pingCtx, cancel := context.WithTimeout(ctx, storePingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		return nil, fmt.Errorf("progress store unreachable: %w", err)
	}
	return NewStoreProgressReporter(store, ttl), nil
}

func (r *StoreProgressReporter) Report(ctx context.Context, progress domain.TierProgress) error {
	if progress.UpdatedAt.IsZero() {
		progress.UpdatedAt = r.now().UTC()
	}
	payload, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("marshal tier progress: %w", err)
	}

	if err := r.store.PutField(ctx, cache.SeedRunKey(progress.RunID), progress.Difficulty.String(), string(payload), r.ttl); err != nil {
		return fmt.Errorf("store tier progress: %w", err)
	}
	return nil
}

func (r *StoreProgressReporter) Snapshot(ctx context.Context, runID string) (map[domain.Difficulty]domain.TierProgress, error) {
	fields, err := r.store.Fields(ctx, cache.SeedRunKey(runID))
	if err != nil {
		return nil, fmt.Errorf("load run progress: %w", err)
	}

	out := make(map[domain.Difficulty]domain.TierProgress, len(fields))
	for field, raw := range fields {
		var p progressRecord
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode progress for %s: %w", field, err)
		}
		out[domain.Difficulty(field)] = p.toDomain()
	}
	return out, nil
}

// progressRecord mirrors the stored JSON; DomainError marshals to {code,status,message}.
type progressRecord struct {
	RunID      string            `json:"runId"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Phase      domain.SeedPhase  `json:"phase"`
	Target     int               `json:"target"`
	Generated  int               `json:"generated"`
	Inserted   int               `json:"inserted"`
	Error      *struct {
		Code    domain.ErrorCode `json:"code"`
		Status  int              `json:"status"`
		Message string           `json:"message"`
	} `json:"error"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p progressRecord) toDomain() domain.TierProgress {
	tp := domain.TierProgress{
		RunID:      p.RunID,
		Difficulty: p.Difficulty,
		Phase:      p.Phase,
		Target:     p.Target,
		Generated:  p.Generated,
		Inserted:   p.Inserted,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Error != nil {
		tp.Error = &domain.DomainError{Code: p.Error.Code, StatusCode: p.Error.Status, Message: p.Error.Message}
	}
	return tp
}

// NopProgressReporter is used when no Redis is configured.
type NopProgressReporter struct{}

func (NopProgressReporter) Report(context.Context, domain.TierProgress) error { return nil }

func (NopProgressReporter) Snapshot(context.Context, string) (map[domain.Difficulty]domain.TierProgress, error) {
	return map[domain.Difficulty]domain.TierProgress{}, nil
}
