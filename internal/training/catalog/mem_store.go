package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// MemStore is an in-memory catalog, used by the offline tools and in tests.
type MemStore struct {
	mutex sync.RWMutex
	defs  map[string]ExerciseDefinition
}

func NewMemStore(defs ...ExerciseDefinition) *MemStore {
	s := &MemStore{
		defs: make(map[string]ExerciseDefinition, len(defs)),
	}
	for _, d := range defs {
		s.Put(d)
	}
	return s
}

func (s *MemStore) Put(def ExerciseDefinition) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.defs[def.Name] = def.normalize()
}

func (s *MemStore) Lookup(_ context.Context, name string) (ExerciseDefinition, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	d, ok := s.defs[name]
	if !ok {
		return ExerciseDefinition{}, ErrExerciseNotFound
	}
	return d, nil
}

func (s *MemStore) LookupMany(_ context.Context, names []string) (map[string]ExerciseDefinition, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	defsByName := make(map[string]ExerciseDefinition, len(names))
	for _, n := range DistinctNames(names) {
		if d, ok := s.defs[n]; ok {
			defsByName[n] = d
		}
	}
	return defsByName, nil
}

func (s *MemStore) KnownMuscleGroups(_ context.Context) ([]MuscleGroup, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var used []MuscleGroup
	for _, d := range s.defs {
		used = append(used, d.Primary, d.Secondary, d.Tertiary)
	}
	return mergeMuscleGroups(used), nil
}

type catalogFile struct {
	Exercises []ExerciseDefinition `yaml:"exercises"`
}

// LoadYAML reads a catalog file of the form:
//
//	exercises:
//	  - name: Bench Press
//	    primary: Chest
//	    secondary: Triceps
//	    tertiary: Front-Shoulder
//	    isolated: [sternocostal head]
//	    mechanic: Compound
//	    force: Push
func LoadYAML(path string) (*MemStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	s := NewMemStore()
	for i, d := range f.Exercises {
		if d.Name == "" {
			return nil, fmt.Errorf("catalog exercise #%d: empty name", i)
		}
		if _, err := s.Lookup(context.Background(), d.Name); err == nil {
			return nil, fmt.Errorf("catalog exercise #%d: duplicate name %q", i, d.Name)
		}
		s.Put(d)
	}

	return s, nil
}
