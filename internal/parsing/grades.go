package parsing

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/talentmatrix/internal/types"
)

// MaxSemesters is the number of gpa_sem_N columns the Gateway stores.
const MaxSemesters = 8

// Grade bounds on the 10-point scale.
const (
	MinGrade = 0.0
	MaxGrade = 10.0
)

// SemesterLabel returns the display label for semester n.
func SemesterLabel(n int) string {
	return fmt.Sprintf("Semester %d", n)
}

// GradeColumn returns the Gateway column for semester n.
func GradeColumn(n int) string {
	return fmt.Sprintf("gpa_sem_%d", n)
}

// SemestersFromColumns maps gpa_sem_1..8 into "Semester N" labels, skipping
// absent, null and empty values. Numeric strings are coerced; values that are
// not numbers at all are skipped.
func SemestersFromColumns(m map[string]json.RawMessage) map[string]float64 {
	out := map[string]float64{}
	for i := 1; i <= MaxSemesters; i++ {
		raw, ok := m[GradeColumn(i)]
		if !ok || string(raw) == "null" {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			out[SemesterLabel(i)] = f
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
			continue
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			out[SemesterLabel(i)] = f
		}
	}
	return out
}

// ParseGrade parses a grade typed by the user and checks the 0-10 range.
func ParseGrade(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &types.ValidationError{Field: "grade", Message: "grade is required"}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &types.ValidationError{Field: "grade", Message: fmt.Sprintf("%q is not a number", s)}
	}
	if f < MinGrade || f > MaxGrade {
		return 0, &types.ValidationError{Field: "grade", Message: fmt.Sprintf("%.2f is outside %.0f-%.0f", f, MinGrade, MaxGrade)}
	}
	return f, nil
}

// SemestersForYear returns the semesters selectable in a study year.
func SemestersForYear(year string) []string {
	switch year {
	case "1":
		return []string{"1", "2"}
	case "2":
		return []string{"3", "4"}
	case "3":
		return []string{"5", "6"}
	case "4":
		return []string{"7", "8"}
	}
	return nil
}

// SemesterNumber parses a semester number between 1 and MaxSemesters.
func SemesterNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > MaxSemesters {
		return 0, &types.ValidationError{Field: "semester", Message: fmt.Sprintf("%q is not a semester between 1 and %d", s, MaxSemesters)}
	}
	return n, nil
}

// PlacementGrades keeps the non-empty gpa_sem_N values up to and including the
// current semester, keyed by column name.
func PlacementGrades(semester string, grades map[string]string) (map[string]string, error) {
	current, err := SemesterNumber(semester)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, current)
	for i := 1; i <= current; i++ {
		v := strings.TrimSpace(grades[GradeColumn(i)])
		if v == "" {
			continue
		}
		if _, err := ParseGrade(v); err != nil {
			return nil, err
		}
		out[GradeColumn(i)] = v
	}
	return out, nil
}

// CGPA averages the recorded semester grades. ok is false when none exist.
func CGPA(semesters map[string]float64) (cgpa float64, ok bool) {
	if len(semesters) == 0 {
		return 0, false
	}
	var sum float64
	for _, g := range semesters {
		sum += g
	}
	return sum / float64(len(semesters)), true
}
