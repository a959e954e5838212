package tracelog

import "time"

// MaxEntries is the local trace cap: stores keep the newest 250 records.
const MaxEntries = 250

// MaxListLimit bounds a single List call.
const MaxListLimit = 500

// Store is the persistence capability the Recorder writes through.
//
// Append prepends a record and prunes to MaxEntries. List returns up to
// limit records newest-first. Implementations may fail; the Recorder
// swallows their errors.
type Store interface {
	Append(rec Record) error
	List(limit int) ([]Record, error)
	Clear() error
}

// Recorder appends delivery trace records to an injected Store.
//
// All operations are best-effort: a broken store never surfaces an error
// to the caller. Diagnostics must not be able to break the host.
type Recorder struct {
	store Store
	ids   IDGenerator
	now   func() time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithIDGenerator replaces the UUIDv7 id generator, for deterministic tests.
func WithIDGenerator(g IDGenerator) RecorderOption {
	return func(r *Recorder) { r.ids = g }
}

// WithClock replaces the wall clock, for deterministic tests.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder creates a Recorder over the given store.
func NewRecorder(store Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store: store,
		ids:   UUIDv7Generator{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record populates and appends a trace record, returning the stored row.
// The returned record is valid even when the underlying write was dropped.
func (r *Recorder) Record(e Entry) Record {
	rec := Record{
		ID:          r.ids.Generate(),
		RecipientID: e.RecipientID,
		EventID:     e.EventID,
		Transport:   e.Transport,
		Stage:       e.Stage,
		Decision:    e.Decision,
		Reason:      e.Reason,
		Details:     e.Details,
		CreatedAt:   r.now().UTC(),
	}
	_ = r.store.Append(rec) // best-effort
	return rec
}

// List returns up to clamp(limit, 1, MaxListLimit) records newest-first.
// A failing store yields an empty slice.
func (r *Recorder) List(limit int) []Record {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	recs, err := r.store.List(limit)
	if err != nil {
		return nil
	}
	return recs
}

// Clear empties the store. Errors are swallowed.
func (r *Recorder) Clear() {
	_ = r.store.Clear()
}
