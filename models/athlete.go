// models/athlete.go
package models

import (
	"time"
)

const (
	SexMale   = "男子"
	SexFemale = "女子"
)

// Athlete is one roster row. Identity toward the entry store is
// (SchoolID, Name) — the ID column only exists for row edits.
type Athlete struct {
	ID       string `json:"id" gorm:"primaryKey"`
	SchoolID string `json:"school_id" gorm:"not null;index"`
	Name     string `json:"name" gorm:"not null"`
	Sex      string `json:"sex"`
	Grade    int    `json:"grade"`
	// Free text on purpose — schools enter dates in whatever format the
	// federation form asks for that year.
	DateOfBirth string `json:"date_of_birth"`
	ExternalID  string `json:"jkf_no"` // JKF registration number
	Active      bool   `json:"active" gorm:"default:true"`
	// Archived is set by the year rollover when a third-year graduates.
	// Rows are never deleted so past tournaments stay reconstructable.
	Archived bool `json:"archived" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// DecodeSex folds any stored value onto 男子/女子, defaulting to 男子.
func DecodeSex(s string) string {
	switch s {
	case SexMale, SexFemale:
		return s
	case "男", "male", "m":
		return SexMale
	case "女", "female", "f":
		return SexFemale
	default:
		return SexMale
	}
}

// EntryKey is the composite key used inside a tournament's entry book.
func (a *Athlete) EntryKey() string {
	return EntryKeyFor(a.SchoolID, a.Name)
}

// EntryKeyFor builds the "{schoolID}_{athleteName}" composite key.
func EntryKeyFor(schoolID, athleteName string) string {
	return schoolID + "_" + athleteName
}
