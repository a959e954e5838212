package tracelog

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Transport tags which delivery mechanism a trace row describes.
type Transport string

const (
	TransportInApp         Transport = "in_app"
	TransportWebPush       Transport = "web_push"
	TransportSimulatedPush Transport = "simulated_push"
	TransportRoutePolicy   Transport = "route_policy"
)

// Stage tags where in the dispatch pipeline the decision was observed.
type Stage string

const (
	StageEnqueue     Stage = "enqueue"
	StageClaim       Stage = "claim"
	StageSendTime    Stage = "send_time"
	StageClientRoute Stage = "client_route"
)

// Decision is the send/skip/defer outcome of a delivery attempt.
type Decision string

const (
	DecisionSend  Decision = "send"
	DecisionSkip  Decision = "skip"
	DecisionDefer Decision = "defer"
)

// DetailWakeSource is the details key the parity aggregator classifies
// backend traces by.
const DetailWakeSource = "wakeSource"

// Record is one observed delivery decision. Immutable after creation.
type Record struct {
	ID          string         `json:"id"`
	RecipientID string         `json:"recipient_id,omitempty"`
	EventID     string         `json:"event_id,omitempty"`
	Transport   Transport      `json:"transport"`
	Stage       Stage          `json:"stage"`
	Decision    Decision       `json:"decision"`
	Reason      string         `json:"reason"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Entry is the caller-supplied portion of a Record; the Recorder fills
// in the id and timestamp.
type Entry struct {
	RecipientID string
	EventID     string
	Transport   Transport
	Stage       Stage
	Decision    Decision
	Reason      string
	Details     map[string]any
}

// IDGenerator generates unique trace record ids.
// Implemented by UUIDv7Generator (production) and FixedIDGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 record ids.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedIDGenerator returns predetermined ids for deterministic tests.
//
// Thread-safe via internal mutex. Panics when all ids are consumed -
// fail-fast so a test never silently reuses ids.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next predetermined id.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
