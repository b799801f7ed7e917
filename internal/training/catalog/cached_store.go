package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=store_mock_test.go -package=catalog_test

// Store is the exercise catalog as seen by the rest of the system.
type Store interface {
	Lookup(ctx context.Context, name string) (ExerciseDefinition, error)
	LookupMany(ctx context.Context, names []string) (map[string]ExerciseDefinition, error)
	KnownMuscleGroups(ctx context.Context) ([]MuscleGroup, error)
}

const muscleGroupsCacheKey = "muscle-groups::all"

// CachedStore keeps recently resolved exercise definitions in a freecache
// instance in front of another Store. Only hits are cached: an exercise
// missing from the catalog is looked up again on the next call.
// Catalog maintenance must call Invalidate after changing definitions.
type CachedStore struct {
	store Store
	cache *freecache.Cache
	ttl   int
}

func NewCachedStore(store Store, cacheSizeMegabytes int, ttl time.Duration) *CachedStore {
	megabyte := 1024 * 1024
	return &CachedStore{
		store: store,
		cache: freecache.NewCache(cacheSizeMegabytes * megabyte),
		ttl:   int(ttl.Seconds()),
	}
}

func (cs *CachedStore) Lookup(ctx context.Context, name string) (ExerciseDefinition, error) {
	if d, ok := cs.getDefinition(name); ok {
		return d, nil
	}

	d, err := cs.store.Lookup(ctx, name)
	if err != nil {
		return ExerciseDefinition{}, err
	}
	cs.setDefinition(d)
	return d, nil
}

func (cs *CachedStore) LookupMany(ctx context.Context, names []string) (map[string]ExerciseDefinition, error) {
	names = DistinctNames(names)
	defsByName := make(map[string]ExerciseDefinition, len(names))

	var misses []string
	for _, n := range names {
		if d, ok := cs.getDefinition(n); ok {
			defsByName[n] = d
			continue
		}
		misses = append(misses, n)
	}
	if len(misses) == 0 {
		return defsByName, nil
	}

	fetched, err := cs.store.LookupMany(ctx, misses)
	if err != nil {
		return nil, err
	}
	for n, d := range fetched {
		cs.setDefinition(d)
		defsByName[n] = d
	}

	return defsByName, nil
}

func (cs *CachedStore) KnownMuscleGroups(ctx context.Context) ([]MuscleGroup, error) {
	if cached, err := cs.cache.Get([]byte(muscleGroupsCacheKey)); err == nil {
		var groups []MuscleGroup
		if err := json.Unmarshal(cached, &groups); err == nil {
			return groups, nil
		} else {
			log.Errorf("failed to unmarshal cached muscle groups: %s", err)
		}
	}

	groups, err := cs.store.KnownMuscleGroups(ctx)
	if err != nil {
		return nil, err
	}

	if groupsJson, err := json.Marshal(groups); err == nil {
		if err := cs.cache.Set([]byte(muscleGroupsCacheKey), groupsJson, cs.ttl); err != nil {
			log.Warnf("failed to cache muscle groups: %s", err)
		}
	}
	return groups, nil
}

// Invalidate drops every cached entry.
func (cs *CachedStore) Invalidate() {
	cs.cache.Clear()
}

func (cs *CachedStore) HitRate() float64 {
	return cs.cache.HitRate()
}

func (cs *CachedStore) getDefinition(name string) (ExerciseDefinition, bool) {
	cached, err := cs.cache.Get(definitionCacheKey(name))
	if err != nil {
		return ExerciseDefinition{}, false
	}

	var d ExerciseDefinition
	if err := json.Unmarshal(cached, &d); err != nil {
		log.Errorf("failed to unmarshal cached exercise definition [%s]: %s", name, err)
		return ExerciseDefinition{}, false
	}
	return d, true
}

func (cs *CachedStore) setDefinition(d ExerciseDefinition) {
	defJson, err := json.Marshal(d)
	if err != nil {
		log.Errorf("failed to marshal exercise definition [%s]: %s", d.Name, err)
		return
	}
	if err := cs.cache.Set(definitionCacheKey(d.Name), defJson, cs.ttl); err != nil {
		log.Warnf("failed to cache exercise definition [%s]: %s", d.Name, err)
	}
}

func definitionCacheKey(name string) []byte {
	return []byte("exercise::" + name)
}
