package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xyzmtx/math-explorer-agent/internal/model"
	atomicyaml "github.com/xyzmtx/math-explorer-agent/internal/yaml"
)

const snapshotSchemaVersion = 1

// snapshot is the on-disk form of a ledger, counters included so ids stay
// monotonic across restarts.
type snapshot struct {
	SchemaVersion int                `yaml:"schema_version"`
	FileType      string             `yaml:"file_type"`
	SavedAt       string             `yaml:"saved_at"`
	Objects       []model.MathObject `yaml:"objects"`
	Concepts      []model.MathConcept `yaml:"concepts"`
	Directions    []model.Direction  `yaml:"directions"`
	Conjectures   []model.Conjecture `yaml:"conjectures"`
	Lemmas        []model.Lemma      `yaml:"lemmas"`
	Counters      counters           `yaml:"counters"`
}

type counters struct {
	Objects     int `yaml:"objects"`
	Concepts    int `yaml:"concepts"`
	Directions  int `yaml:"directions"`
	Conjectures int `yaml:"conjectures"`
	Lemmas      int `yaml:"lemmas"`
}

// Store couples a Ledger with its snapshot directory.
type Store struct {
	Ledger *Ledger
	dir    string
	now    func() time.Time
}

// NewStore creates a store writing snapshots under dir.
func NewStore(dir string) *Store {
	return &Store{Ledger: New(), dir: dir, now: time.Now}
}

// Save writes a full snapshot. The filename embeds the tag and a
// timestamp; the path of the written file is returned.
func (s *Store) Save(tag string) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	ts := s.now().Format("20060102_150405")
	name := fmt.Sprintf("ledger_%s.yaml", ts)
	if tag != "" {
		name = fmt.Sprintf("ledger_%s_%s.yaml", tag, ts)
	}
	path := filepath.Join(s.dir, name)

	snap := snapshot{
		SchemaVersion: snapshotSchemaVersion,
		FileType:      "ledger_snapshot",
		SavedAt:       s.now().UTC().Format(time.RFC3339),
		Objects:       s.Ledger.Objects,
		Concepts:      s.Ledger.Concepts,
		Directions:    s.Ledger.Directions,
		Conjectures:   s.Ledger.Conjectures,
		Lemmas:        s.Ledger.Lemmas,
		Counters: counters{
			Objects:     s.Ledger.objCounter,
			Concepts:    s.Ledger.conCounter,
			Directions:  s.Ledger.dirCounter,
			Conjectures: s.Ledger.conjCounter,
			Lemmas:      s.Ledger.lemCounter,
		},
	}
	if err := atomicyaml.AtomicWrite(path, snap); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// Load replaces the in-memory ledger with the snapshot at path. Counters
// missing from older snapshots fall back to the collection lengths.
func (s *Store) Load(path string) error {
	var snap snapshot
	if err := atomicyaml.ReadFile(path, &snap); err != nil {
		return err
	}

	l := New()
	l.Objects = snap.Objects
	l.Concepts = snap.Concepts
	l.Directions = snap.Directions
	l.Conjectures = snap.Conjectures
	l.Lemmas = snap.Lemmas
	l.objCounter = max(snap.Counters.Objects, len(snap.Objects))
	l.conCounter = max(snap.Counters.Concepts, len(snap.Concepts))
	l.dirCounter = max(snap.Counters.Directions, len(snap.Directions))
	l.conjCounter = max(snap.Counters.Conjectures, len(snap.Conjectures))
	l.lemCounter = max(snap.Counters.Lemmas, len(snap.Lemmas))

	s.Ledger = l
	return nil
}
