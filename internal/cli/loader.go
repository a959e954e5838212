package cli

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	"gopkg.in/yaml.v3"

	"github.com/hailer-chat/pushgate/internal/cutover"
	"github.com/hailer-chat/pushgate/internal/policy"
	"github.com/hailer-chat/pushgate/internal/queuehealth"
	"github.com/hailer-chat/pushgate/internal/tracelog"
)

//go:embed schema.cue
var schemaCUE string

// validateJSON checks raw JSON against one definition of the embedded
// CUE schema. Returns the first constraint violation.
func validateJSON(def, filename string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	target := schema.LookupPath(cue.ParsePath(def))
	if err := target.Err(); err != nil {
		return fmt.Errorf("lookup %s: %w", def, err)
	}

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	val := ctx.BuildExpr(expr)
	if err := val.Err(); err != nil {
		return fmt.Errorf("build %s value: %w", filename, err)
	}

	return target.Unify(val).Validate(cue.Concrete(true))
}

// ValidateTraceBatch checks a raw JSON trace batch against the embedded
// CUE schema.
func ValidateTraceBatch(data []byte) error {
	if err := validateJSON("#TraceBatch", "batch.json", data); err != nil {
		return fmt.Errorf("batch does not match schema: %w", err)
	}
	return nil
}

// ValidateSnapshot checks a raw YAML (or JSON) snapshot document against
// the embedded CUE schema. Unknown fields and type mismatches are
// rejected; absent sections are fine.
func ValidateSnapshot(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if doc == nil {
		return nil
	}
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if err := validateJSON("#Snapshot", "snapshot.json", jsonData); err != nil {
		return fmt.Errorf("snapshot does not match schema: %w", err)
	}
	return nil
}

// LoadTraceBatch reads a JSON trace batch file, optionally validating
// it against the CUE schema first.
func LoadTraceBatch(path string, validate bool) ([]tracelog.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace batch: %w", err)
	}
	if validate {
		if err := ValidateTraceBatch(data); err != nil {
			return nil, err
		}
	}
	var records []tracelog.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode trace batch: %w", err)
	}
	return records, nil
}

// SnapshotFile is the operator-authored YAML document feeding the
// health and readiness commands: wakeup scheduler state, queue
// diagnostics, and an optional trace batch reference.
type SnapshotFile struct {
	// Wakeup may be absent (nil), which the readiness evaluator treats
	// as "diagnostics unavailable".
	Wakeup *cutover.WakeupState `yaml:"wakeup,omitempty" json:"wakeup,omitempty"`

	Queue *queuehealth.Snapshot `yaml:"queue,omitempty" json:"queue,omitempty"`

	// Traces is a path to a JSON trace batch, relative to the snapshot
	// file's directory.
	Traces string `yaml:"traces,omitempty" json:"traces,omitempty"`
}

// LoadSnapshotFile parses and schema-checks a snapshot YAML file. JSON
// input also parses, since YAML is a superset.
func LoadSnapshotFile(path string) (*SnapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if err := ValidateSnapshot(data); err != nil {
		return nil, err
	}
	var snap SnapshotFile
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// TracesPath resolves the snapshot's trace batch reference relative to
// the snapshot file location. Empty when the snapshot names none.
func (s *SnapshotFile) TracesPath(snapshotPath string) string {
	if s.Traces == "" {
		return ""
	}
	if filepath.IsAbs(s.Traces) {
		return s.Traces
	}
	return filepath.Join(filepath.Dir(snapshotPath), s.Traces)
}

// PolicyInputFile is the document the route command evaluates: the raw
// client state snapshot plus optional developer overrides.
type PolicyInputFile struct {
	Input     policy.RoutePolicyInput `yaml:"input" json:"input"`
	Overrides policy.Overrides        `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// LoadPolicyInputFile parses a route input document (YAML or JSON).
func LoadPolicyInputFile(path string) (*PolicyInputFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy input: %w", err)
	}
	var doc PolicyInputFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode policy input: %w", err)
	}
	return &doc, nil
}
