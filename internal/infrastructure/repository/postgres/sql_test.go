package postgres

import (
	"database/sql"
	"errors"
	"testing"
)

func TestPlanWriteFiltersMissingColumns(t *testing.T) {
	have := map[string]struct{}{
		"name": {},
		"slug": {},
	}

	plan, err := planWrite(have, []string{"name", "slug", "winner"}, []any{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.degraded {
		t.Fatalf("dropping a column must mark the plan degraded")
	}
	if len(plan.columns) != 2 || plan.columns[0] != "name" || plan.columns[1] != "slug" {
		t.Fatalf("unexpected columns: %v", plan.columns)
	}
	if len(plan.values) != 2 || plan.values[0] != "a" || plan.values[1] != "b" {
		t.Fatalf("unexpected values: %v", plan.values)
	}
}

func TestPlanWriteFullSchemaIsNotDegraded(t *testing.T) {
	have := map[string]struct{}{"name": {}, "slug": {}}

	plan, err := planWrite(have, []string{"name", "slug"}, []any{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.degraded {
		t.Fatalf("full schema must not be degraded")
	}
}

func TestPlanWriteRefusesToDropNaturalKey(t *testing.T) {
	have := map[string]struct{}{"name": {}, "slug": {}}

	_, err := planWrite(have, []string{"external_id", "name", "slug"}, []any{int64(1), "a", "b"}, "external_id")
	if err == nil {
		t.Fatalf("expected error when a natural key column is absent")
	}

	plan, err := planWrite(have, []string{"name", "slug", "winner"}, []any{"a", "b", "c"}, "name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.degraded {
		t.Fatalf("dropping a non-key column must still mark the plan degraded")
	}
}

func TestPlanWriteRejectsEmptyIntersection(t *testing.T) {
	if _, err := planWrite(map[string]struct{}{}, []string{"name"}, []any{"a"}); err == nil {
		t.Fatalf("expected error when no column survives")
	}
	if _, err := planWrite(map[string]struct{}{"name": {}}, []string{"name"}, []any{"a", "b"}); err == nil {
		t.Fatalf("expected error on column/value mismatch")
	}
}

func TestPersistErrorUnwraps(t *testing.T) {
	inner := errors.New("broken pipe")
	err := &PersistError{Entity: "tournament", Op: "insert", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatalf("expected unwrap to inner error")
	}
}

func TestNullableHelpers(t *testing.T) {
	if optionalString("") != nil {
		t.Fatalf("empty string must map to nil")
	}
	if got := optionalString("x"); got == nil || *got != "x" {
		t.Fatalf("unexpected optional string: %v", got)
	}

	if nullableString(nil).Valid {
		t.Fatalf("nil must map to invalid NullString")
	}
	v := "slug"
	if ns := nullableString(&v); !ns.Valid || ns.String != "slug" {
		t.Fatalf("unexpected NullString: %+v", ns)
	}

	if nullInt64ToPtr(sql.NullInt64{}) != nil {
		t.Fatalf("invalid NullInt64 must map to nil")
	}
	if got := nullInt64ToPtr(sql.NullInt64{Int64: 7, Valid: true}); got == nil || *got != 7 {
		t.Fatalf("unexpected int pointer: %v", got)
	}
}
