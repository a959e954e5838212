package tracelog

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every operation, simulating an unavailable
// persistence medium (sandboxed/private browsing context).
type brokenStore struct{}

func (brokenStore) Append(Record) error        { return errors.New("storage unavailable") }
func (brokenStore) List(int) ([]Record, error) { return nil, errors.New("storage unavailable") }
func (brokenStore) Clear() error               { return errors.New("storage unavailable") }

func testRecorder(t *testing.T, store Store) *Recorder {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	return NewRecorder(store,
		WithIDGenerator(&seqIDGenerator{}),
		WithClock(func() time.Time {
			n++
			return base.Add(time.Duration(n) * time.Second)
		}),
	)
}

// seqIDGenerator issues trace-0001, trace-0002, ... without a fixed pool.
type seqIDGenerator struct{ n int }

func (g *seqIDGenerator) Generate() string {
	g.n++
	return fmt.Sprintf("trace-%04d", g.n)
}

func TestRecorder_RecordPopulatesIDAndTimestamp(t *testing.T) {
	r := testRecorder(t, NewMemoryStore())

	rec := r.Record(Entry{
		Transport: TransportRoutePolicy,
		Stage:     StageClientRoute,
		Decision:  DecisionSend,
		Reason:    "sent",
	})

	assert.Equal(t, "trace-0001", rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got := r.List(10)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
}

func TestRecorder_CapKeepsNewest250(t *testing.T) {
	r := testRecorder(t, NewMemoryStore())

	for i := 0; i < 300; i++ {
		r.Record(Entry{
			Transport: TransportInApp,
			Stage:     StageClientRoute,
			Decision:  DecisionSkip,
			Reason:    "app_focused",
		})
	}

	got := r.List(MaxListLimit)
	require.Len(t, got, MaxEntries)
	// Newest first: record 300 leads, record 51 is last.
	assert.Equal(t, "trace-0300", got[0].ID)
	assert.Equal(t, "trace-0051", got[len(got)-1].ID)
}

func TestRecorder_ListClampsLimit(t *testing.T) {
	r := testRecorder(t, NewMemoryStore())
	for i := 0; i < 5; i++ {
		r.Record(Entry{Transport: TransportInApp, Stage: StageClientRoute, Decision: DecisionSend, Reason: "sent"})
	}

	assert.Len(t, r.List(0), 1, "limit below 1 clamps to 1")
	assert.Len(t, r.List(-10), 1)
	assert.Len(t, r.List(3), 3)
	assert.Len(t, r.List(100000), 5, "limit above cap clamps, then bounded by volume")
}

func TestRecorder_Clear(t *testing.T) {
	r := testRecorder(t, NewMemoryStore())
	r.Record(Entry{Transport: TransportInApp, Stage: StageClientRoute, Decision: DecisionSend, Reason: "sent"})
	r.Clear()
	assert.Empty(t, r.List(10))
}

func TestRecorder_BrokenStoreIsSilent(t *testing.T) {
	r := testRecorder(t, brokenStore{})

	// None of these may panic or surface an error.
	rec := r.Record(Entry{Transport: TransportWebPush, Stage: StageSendTime, Decision: DecisionSend, Reason: "sent"})
	assert.NotEmpty(t, rec.ID, "returned record is still populated")
	assert.Empty(t, r.List(10), "reads degrade to empty")
	r.Clear()
}

func TestFileStore_MalformedDataTreatedAsEmpty(t *testing.T) {
	path := t.TempDir() + "/traces.json"
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0o644))

	store := NewFileStore(path)
	recs, err := store.List(10)
	require.NoError(t, err)
	assert.Empty(t, recs)

	// Appending over malformed data starts a fresh list.
	require.NoError(t, store.Append(Record{ID: "a", Transport: TransportInApp, Stage: StageClientRoute, Decision: DecisionSend, Reason: "sent"}))
	recs, err = store.List(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].ID)
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := t.TempDir() + "/traces.json"
	store := NewFileStore(path)

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.Append(Record{
			ID:        fmt.Sprintf("rec-%d", i),
			Transport: TransportWebPush,
			Stage:     StageSendTime,
			Decision:  DecisionSend,
			Reason:    "sent",
			Details:   map[string]any{DetailWakeSource: "shadow"},
			CreatedAt: time.Date(2026, 3, 1, 0, 0, i, 0, time.UTC),
		}))
	}

	recs, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "rec-3", recs[0].ID, "newest first")
	assert.Equal(t, "shadow", recs[0].Details[DetailWakeSource])

	require.NoError(t, store.Clear())
	recs, err = store.List(10)
	require.NoError(t, err)
	assert.Empty(t, recs)
	// Clearing twice is a no-op, not an error.
	require.NoError(t, store.Clear())
}
