package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Location groups the fields derived from a tournament's city.
type Location struct {
	Department string
	Region     string
	Zone       string
}

var (
	titler = cases.Title(language.Und)
	folder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

	departmentByFoldedCity map[string]string
)

func init() {
	departmentByFoldedCity = make(map[string]string, len(departmentByCity))
	for city, department := range departmentByCity {
		departmentByFoldedCity[foldCity(city)] = department
	}
}

// foldCity strips diacritics, drops non-ASCII leftovers and title-cases the
// result so that "BOGOTÁ", "bogota" and "Bogotá" share one key.
func foldCity(city string) string {
	folded, _, err := transform.String(folder, strings.TrimSpace(city))
	if err != nil {
		folded = strings.TrimSpace(city)
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return titler.String(b.String())
}

// DepartmentForCity resolves a Colombian city to its department. Matching is
// case and diacritic insensitive. The second return is false when the city is
// unknown or empty.
func DepartmentForCity(city string) (string, bool) {
	if strings.TrimSpace(city) == "" {
		return "", false
	}
	department, ok := departmentByFoldedCity[foldCity(city)]
	return department, ok
}

// RegionForDepartment resolves a department to its region.
func RegionForDepartment(department string) (string, bool) {
	region, ok := regionByDepartment[department]
	return region, ok
}

// ZoneForDepartment resolves a department to its competitive zone.
func ZoneForDepartment(department string) (string, bool) {
	zone, ok := zoneByDepartment[department]
	return zone, ok
}

// Resolve derives the full Location for a city. Unknown cities yield an empty
// Location rather than an error.
func Resolve(city string) Location {
	department, ok := DepartmentForCity(city)
	if !ok {
		return Location{}
	}
	region, _ := RegionForDepartment(department)
	zone, _ := ZoneForDepartment(department)
	return Location{
		Department: department,
		Region:     region,
		Zone:       zone,
	}
}
