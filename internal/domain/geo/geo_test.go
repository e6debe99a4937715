package geo

import "testing"

func TestDepartmentForCityFoldsCaseAndAccents(t *testing.T) {
	t.Parallel()

	cases := []struct {
		city string
		want string
	}{
		{city: "Bogotá", want: "Cundinamarca"},
		{city: "bogota", want: "Cundinamarca"},
		{city: "BOGOTÁ", want: "Cundinamarca"},
		{city: "  medellin  ", want: "Antioquia"},
		{city: "santander de quilichao", want: "Cauca"},
		{city: "CÚCUTA", want: "Norte de Santander"},
	}

	for _, tc := range cases {
		got, ok := DepartmentForCity(tc.city)
		if !ok {
			t.Fatalf("DepartmentForCity(%q) not found", tc.city)
		}
		if got != tc.want {
			t.Fatalf("DepartmentForCity(%q) = %q, want %q", tc.city, got, tc.want)
		}
	}
}

func TestDepartmentForCityUnknown(t *testing.T) {
	t.Parallel()

	if _, ok := DepartmentForCity("Springfield"); ok {
		t.Fatalf("expected no match for unknown city")
	}
	if _, ok := DepartmentForCity(""); ok {
		t.Fatalf("expected no match for empty city")
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	loc := Resolve("pereira")
	if loc.Department != "Risaralda" {
		t.Fatalf("department = %q, want Risaralda", loc.Department)
	}
	if loc.Region != "Eje Cafetero" {
		t.Fatalf("region = %q, want Eje Cafetero", loc.Region)
	}
	if loc.Zone != "Eje Cafetero" {
		t.Fatalf("zone = %q, want Eje Cafetero", loc.Zone)
	}

	if got := Resolve("Atlantis"); got != (Location{}) {
		t.Fatalf("expected zero Location for unknown city, got %+v", got)
	}

	// Yopal has a department but no region or zone assignment.
	partial := Resolve("Yopal")
	if partial.Department != "Casanare" {
		t.Fatalf("department = %q, want Casanare", partial.Department)
	}
	if partial.Region != "" || partial.Zone != "" {
		t.Fatalf("expected empty region and zone, got %+v", partial)
	}
}
