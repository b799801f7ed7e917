package entries

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/hypertrophytoolbox/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Repo reads planned entries from user_selection and logged entries from
// workout_log. It never writes; CRUD of both tables lives elsewhere.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) ListEntries(ctx context.Context, source Source, filter Filter) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.entries.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("source", string(source)))
	span.SetAttributes(attribute.String("routine", filter.Routine))
	span.SetAttributes(attribute.String("exercise", filter.Exercise))
	if filter.From != nil {
		span.SetAttributes(attribute.String("from", filter.From.String()))
	}
	if filter.To != nil {
		span.SetAttributes(attribute.String("to", filter.To.String()))
	}

	if err := filter.ValidFor(source); err != nil {
		return nil, err
	}

	var list []Entry
	switch source {
	case SourcePlan:
		list, err = r.listPlan(ctx, filter)
	case SourceLog:
		list, err = r.listLog(ctx, filter)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("entries", len(list)))
	return list, nil
}

func (r *Repo) listPlan(ctx context.Context, filter Filter) ([]Entry, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, routine, exercise, sets,
				COALESCE(min_rep_range, 0), COALESCE(max_rep_range, 0),
				COALESCE(rir, 0), COALESCE(weight, 0)::float8
			FROM user_selection
				WHERE ($1::text = '' OR routine = $1)
				AND ($2::text = '' OR exercise = $2)
			ORDER BY routine, exercise, id;`,
		filter.Routine, filter.Exercise,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var list []Entry
	for rows.Next() {
		e := Entry{Source: SourcePlan}
		if err := rows.Scan(
			&e.ID, &e.Routine, &e.Exercise, &e.Sets,
			&e.MinReps, &e.MaxReps,
			&e.RIR, &e.Weight,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return list, nil
}

func (r *Repo) listLog(ctx context.Context, filter Filter) ([]Entry, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, routine, exercise, planned_sets,
				COALESCE(planned_min_reps, 0), COALESCE(planned_max_reps, 0),
				COALESCE(planned_rir, 0), COALESCE(planned_weight, 0)::float8,
				created_at
			FROM workout_log
				WHERE ($1::text = '' OR routine = $1)
				AND ($2::text = '' OR exercise = $2)
				AND ($3::timestamptz IS NULL OR created_at >= $3)
				AND ($4::timestamptz IS NULL OR created_at < $4)
			ORDER BY created_at, id;`,
		filter.Routine, filter.Exercise,
		filter.From, filter.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	list, err := rows2logEntries(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2logEntries: %w", err)
	}
	return list, nil
}

func rows2logEntries(rows pgx.Rows) ([]Entry, error) {
	var list []Entry
	for rows.Next() {
		e := Entry{Source: SourceLog}
		var performedAt time.Time
		if err := rows.Scan(
			&e.ID, &e.Routine, &e.Exercise, &e.Sets,
			&e.MinReps, &e.MaxReps,
			&e.RIR, &e.Weight,
			&performedAt,
		); err != nil {
			return nil, err
		}
		e.PerformedAt = &performedAt
		e.Session = SessionKey(performedAt)
		list = append(list, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
