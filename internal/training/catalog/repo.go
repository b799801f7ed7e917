package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/2beens/hypertrophytoolbox/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrExerciseNotFound = errors.New("exercise not found")

const selectDefinitionColumns = `
	SELECT
		exercise_name,
		COALESCE(primary_muscle_group, ''),
		COALESCE(secondary_muscle_group, ''),
		COALESCE(tertiary_muscle_group, ''),
		COALESCE(advanced_isolated_muscles, ''),
		COALESCE(utility, ''),
		COALESCE(force, ''),
		COALESCE(equipment, ''),
		COALESCE(mechanic, ''),
		COALESCE(difficulty, '')
	FROM exercises`

// Repo reads exercise definitions from the exercises table.
// Matching on the exercise name is exact and case-sensitive.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Lookup(ctx context.Context, name string) (_ ExerciseDefinition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.lookup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", name))

	rows, err := r.db.Query(ctx, selectDefinitionColumns+` WHERE exercise_name = $1;`, name)
	if err != nil {
		return ExerciseDefinition{}, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	defs, err := rows2definitions(rows)
	if err != nil {
		return ExerciseDefinition{}, fmt.Errorf("rows2definitions: %w", err)
	}
	if len(defs) != 1 {
		return ExerciseDefinition{}, ErrExerciseNotFound
	}

	return defs[0], nil
}

// LookupMany resolves all the given names with a single query. Names that
// are not in the catalog are simply absent from the returned map.
func (r *Repo) LookupMany(ctx context.Context, names []string) (_ map[string]ExerciseDefinition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.lookup_many")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	names = DistinctNames(names)
	span.SetAttributes(attribute.Int("names", len(names)))

	defsByName := make(map[string]ExerciseDefinition, len(names))
	if len(names) == 0 {
		return defsByName, nil
	}

	rows, err := r.db.Query(ctx, selectDefinitionColumns+` WHERE exercise_name = ANY($1);`, names)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	defs, err := rows2definitions(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2definitions: %w", err)
	}
	for _, d := range defs {
		defsByName[d.Name] = d
	}

	span.SetAttributes(attribute.Int("resolved", len(defsByName)))
	return defsByName, nil
}

// KnownMuscleGroups returns the fixed muscle group universe, extended with
// any other group used by catalog exercises (sorted, after the fixed ones).
func (r *Repo) KnownMuscleGroups(ctx context.Context) (_ []MuscleGroup, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.catalog.known_muscle_groups")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT TRIM(mg) FROM (
			SELECT primary_muscle_group AS mg FROM exercises
			UNION SELECT secondary_muscle_group FROM exercises
			UNION SELECT tertiary_muscle_group FROM exercises
		) groups
		WHERE mg IS NOT NULL AND TRIM(mg) <> '';`,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var used []MuscleGroup
	for rows.Next() {
		var mg string
		if err := rows.Scan(&mg); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		used = append(used, MuscleGroup(mg))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return mergeMuscleGroups(used), nil
}

func mergeMuscleGroups(used []MuscleGroup) []MuscleGroup {
	groups := make([]MuscleGroup, 0, len(KnownMuscleGroups)+len(used))
	seen := make(map[MuscleGroup]bool, len(KnownMuscleGroups))
	for _, mg := range KnownMuscleGroups {
		seen[mg] = true
		groups = append(groups, mg)
	}

	var extra []MuscleGroup
	for _, mg := range used {
		if mg == "" || seen[mg] {
			continue
		}
		seen[mg] = true
		extra = append(extra, mg)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })

	return append(groups, extra...)
}

func rows2definitions(rows pgx.Rows) ([]ExerciseDefinition, error) {
	var defs []ExerciseDefinition
	for rows.Next() {
		var d ExerciseDefinition
		var primary, secondary, tertiary, isolated string
		if err := rows.Scan(
			&d.Name,
			&primary, &secondary, &tertiary,
			&isolated,
			&d.Utility, &d.Force, &d.Equipment, &d.Mechanic, &d.Difficulty,
		); err != nil {
			return nil, err
		}
		d.Primary = MuscleGroup(primary)
		d.Secondary = MuscleGroup(secondary)
		d.Tertiary = MuscleGroup(tertiary)
		d.IsolatedMuscles = ParseIsolatedMuscles(isolated)
		defs = append(defs, d.normalize())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return defs, nil
}
