package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("tournaments").
		Where(Eq("country_code", "CO"), Expr("start_date >= ?", "2023-01-01")).
		OrderBy("start_date DESC").
		Limit(25).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM tournaments WHERE country_code = $1 AND start_date >= $2 ORDER BY start_date DESC LIMIT 25"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "CO" || args[1] != "2023-01-01" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderGroupBy(t *testing.T) {
	query, args, err := Select("level AS key", "COUNT(1) AS count").
		From("audit_logs").
		GroupBy("level").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT level AS key, COUNT(1) AS count FROM audit_logs GROUP BY level"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("id", "gamer_tag").
		Values("p1", "Zento").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO players (id, gamer_tag) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "p1" || args[1] != "Zento" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRejectsRaggedRow(t *testing.T) {
	_, _, err := InsertInto("players").
		Columns("id", "gamer_tag").
		Values("p1").
		ToSQL()
	if err == nil {
		t.Fatal("expected error for row shorter than column list")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("players").
		Set("gamer_tag", "Chino").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "p1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE players SET gamer_tag = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Chino" || args[1] != "p1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
