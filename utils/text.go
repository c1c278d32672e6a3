// utils/text.go
package utils

import (
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/width"
)

// NormalizeDigits folds full-width digits (０１２…) to ASCII before a rank
// is stored. Schools type ranks from Japanese IMEs and the bracket tooling
// downstream only reads ASCII.
func NormalizeDigits(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}

// NewSchoolID mints a v2 school identifier: slugged romanized name plus a
// short random suffix. The suffix keeps the ID stable across renames and
// unique across same-named branch schools.
func NewSchoolID(name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "school"
	}
	return base + "-" + uuid.NewString()[:8]
}

// ExportFileName slugs a label into a safe artifact file name.
func ExportFileName(label, ext string) string {
	s := slug.Make(label)
	if s == "" {
		s = "export"
	}
	return s + ext
}
