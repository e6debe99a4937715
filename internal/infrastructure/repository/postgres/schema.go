package postgres

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// schemaInspector answers structural questions about the live database via
// information_schema, so degrade decisions never depend on driver error
// text. Lookups are cached per table for the process lifetime: a migration
// applied mid-run is only observed after a restart, and writes keep
// degrading until then.
type schemaInspector struct {
	db *sqlx.DB

	mu      sync.RWMutex
	columns map[string]map[string]struct{}
}

func newSchemaInspector(db *sqlx.DB) *schemaInspector {
	return &schemaInspector{
		db:      db,
		columns: make(map[string]map[string]struct{}),
	}
}

// Columns returns the set of columns the table currently has. A missing
// table yields an empty set, not an error.
func (s *schemaInspector) Columns(ctx context.Context, table string) (map[string]struct{}, error) {
	s.mu.RLock()
	cached, ok := s.columns[table]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var names []string
	err := s.db.SelectContext(ctx, &names, `
SELECT column_name
FROM information_schema.columns
WHERE table_schema = current_schema()
  AND table_name = $1`, table)
	if err != nil {
		return nil, fmt.Errorf("inspect columns of %s: %w", table, err)
	}

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	s.mu.Lock()
	s.columns[table] = set
	s.mu.Unlock()

	return set, nil
}

// TableExists reports whether the table is present at all.
func (s *schemaInspector) TableExists(ctx context.Context, table string) (bool, error) {
	cols, err := s.Columns(ctx, table)
	if err != nil {
		return false, err
	}
	return len(cols) > 0, nil
}

// writePlan is the outcome of the structural degrade decision for one
// upsert: which columns can be written and whether anything was dropped.
type writePlan struct {
	columns  []string
	values   []any
	degraded bool
}

// planWrite filters the wanted column/value pairs down to the columns the
// table actually has. Dropping any column marks the plan degraded; a table
// with none of the wanted columns cannot be written at all. Natural key
// columns are never dropped silently, because a row written without its
// identity would stop matching future lookups and break idempotency.
func planWrite(have map[string]struct{}, columns []string, values []any, naturalKeys ...string) (writePlan, error) {
	if len(columns) != len(values) {
		return writePlan{}, fmt.Errorf("column/value length mismatch: %d vs %d", len(columns), len(values))
	}

	required := make(map[string]struct{}, len(naturalKeys))
	for _, key := range naturalKeys {
		required[key] = struct{}{}
	}

	plan := writePlan{
		columns: make([]string, 0, len(columns)),
		values:  make([]any, 0, len(values)),
	}
	for i, column := range columns {
		if _, ok := have[column]; !ok {
			if _, keyed := required[column]; keyed {
				return writePlan{}, fmt.Errorf("natural key column %s missing from schema", column)
			}
			plan.degraded = true
			continue
		}
		plan.columns = append(plan.columns, column)
		plan.values = append(plan.values, values[i])
	}
	if len(plan.columns) == 0 {
		return writePlan{}, fmt.Errorf("table has none of the expected columns")
	}

	return plan, nil
}
