// utils/text_test.go
package utils

import (
	"strings"
	"testing"
)

func TestNormalizeDigits(t *testing.T) {
	cases := []struct{ in, want string }{
		{"３", "3"},
		{"１２", "12"},
		{" 2 ", "2"},
		{"7", "7"},
		{"", ""},
		{"　", ""}, // full-width space
	}
	for _, c := range cases {
		if got := NormalizeDigits(c.in); got != c.want {
			t.Errorf("NormalizeDigits(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewSchoolID(t *testing.T) {
	a := NewSchoolID("県立第一高校")
	b := NewSchoolID("県立第一高校")
	if a == b {
		t.Error("same name must still mint distinct IDs")
	}
	if strings.Contains(a, " ") || strings.Contains(a, "_") {
		t.Errorf("ID %q should be slug-safe", a)
	}
}

func TestExportFileName(t *testing.T) {
	if got := ExportFileName("県立第一高校", ".xlsx"); !strings.HasSuffix(got, ".xlsx") || got == ".xlsx" {
		t.Errorf("ExportFileName = %q, want a non-empty slug plus extension", got)
	}
	if got := ExportFileName("", ".csv"); got != "export.csv" {
		t.Errorf("ExportFileName empty label = %q, want export.csv", got)
	}
}
