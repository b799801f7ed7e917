package entries

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// MemStore keeps plan and log entries in memory. Used by the offline tools
// and in tests.
type MemStore struct {
	mutex   sync.RWMutex
	entries map[Source][]Entry
	nextID  int
}

func NewMemStore() *MemStore {
	return &MemStore{
		entries: make(map[Source][]Entry),
	}
}

// Add stores the entry under its Source, assigning an ID and the session key
// when they are missing.
func (s *MemStore) Add(e Entry) Entry {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.nextID++
	if e.ID == 0 {
		e.ID = s.nextID
	}
	if e.Source == "" {
		e.Source = SourcePlan
	}
	if e.Source == SourceLog && e.Session == "" && e.PerformedAt != nil {
		e.Session = SessionKey(*e.PerformedAt)
	}

	s.entries[e.Source] = append(s.entries[e.Source], e)
	return e
}

func (s *MemStore) ListEntries(_ context.Context, source Source, filter Filter) ([]Entry, error) {
	if source != SourcePlan && source != SourceLog {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	if err := filter.ValidFor(source); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var list []Entry
	for _, e := range s.entries[source] {
		if filter.Matches(e) {
			list = append(list, e)
		}
	}
	return list, nil
}

type entriesFile struct {
	Plan []yamlEntry `yaml:"plan"`
	Log  []yamlEntry `yaml:"log"`
}

type yamlEntry struct {
	Routine     string     `yaml:"routine"`
	Exercise    string     `yaml:"exercise"`
	Sets        yaml.Node  `yaml:"sets"`
	MinReps     int        `yaml:"min_reps"`
	MaxReps     int        `yaml:"max_reps"`
	RIR         int        `yaml:"rir"`
	Weight      float64    `yaml:"weight"`
	PerformedAt *time.Time `yaml:"performed_at"`
}

// sets keeps a missing or non-numeric set count as nil, so the entry is
// reported as malformed instead of failing the whole file.
func (ye yamlEntry) sets() *int {
	if ye.Sets.Kind != yaml.ScalarNode {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(ye.Sets.Value))
	if err != nil {
		return nil
	}
	return &n
}

func (ye yamlEntry) toEntry(source Source) Entry {
	return Entry{
		Source:      source,
		Routine:     ye.Routine,
		Exercise:    ye.Exercise,
		Sets:        ye.sets(),
		MinReps:     ye.MinReps,
		MaxReps:     ye.MaxReps,
		RIR:         ye.RIR,
		Weight:      ye.Weight,
		PerformedAt: ye.PerformedAt,
	}
}

// LoadYAML reads an entries file of the form:
//
//	plan:
//	  - routine: Push A
//	    exercise: Bench Press
//	    sets: 4
//	log:
//	  - routine: Push A
//	    exercise: Bench Press
//	    sets: 3
//	    performed_at: 2024-03-04
func LoadYAML(path string) (*MemStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entries file: %w", err)
	}

	var f entriesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse entries file: %w", err)
	}

	s := NewMemStore()
	for _, ye := range f.Plan {
		s.Add(ye.toEntry(SourcePlan))
	}
	for i, ye := range f.Log {
		if ye.PerformedAt == nil {
			return nil, fmt.Errorf("log entry #%d [%s]: performed_at missing", i, ye.Exercise)
		}
		s.Add(ye.toEntry(SourceLog))
	}

	return s, nil
}
