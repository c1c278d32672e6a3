// models/school.go
package models

import (
	"time"
)

// Advisor roles as shown on the entry form and the attendance report.
const (
	AdvisorRoleJudge       = "審判"
	AdvisorRoleScorekeeper = "競技記録"
	AdvisorRoleStaff       = "係員"
)

// SchoolAccount is one federation member school. The ID uses the v2 scheme
// (slugged name + short random suffix) so renames don't break entry keys.
type SchoolAccount struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"uniqueIndex;not null"`
	ShortName string `json:"short_name"`
	// Password is compared as-is. Carried over from the previous system;
	// schools share one account and reset goes through the federation office.
	Password  string `json:"-" gorm:"not null"`
	Principal string `json:"principal"`
	// SchoolNo fixes the row order of every admin report. 999 = unassigned.
	SchoolNo int `json:"school_no" gorm:"default:999"`
	IsAdmin  bool `json:"is_admin" gorm:"default:false"`

	Advisors []Advisor `json:"advisors,omitempty" gorm:"foreignKey:SchoolID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Advisor is a staff member a school brings to the tournament. The advisor
// with the lowest SortOrder is the head advisor (筆頭顧問) on every form.
type Advisor struct {
	ID        string `json:"id" gorm:"primaryKey"`
	SchoolID  string `json:"school_id" gorm:"not null;index"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Day1      bool   `json:"day1"`
	Day2      bool   `json:"day2"`
	SortOrder int    `json:"sort_order" gorm:"column:sort_order;default:0"`
}

// DecodeAdvisorRole maps a stored role onto the known set. Legacy blobs
// contain free-text roles, so anything unrecognized becomes 審判.
func DecodeAdvisorRole(s string) string {
	switch s {
	case AdvisorRoleJudge, AdvisorRoleScorekeeper, AdvisorRoleStaff:
		return s
	default:
		return AdvisorRoleJudge
	}
}

// HeadAdvisorName returns the name of the first advisor in display order,
// or "" when the school has none yet.
func (s *SchoolAccount) HeadAdvisorName() string {
	if len(s.Advisors) == 0 {
		return ""
	}
	head := s.Advisors[0]
	for _, a := range s.Advisors[1:] {
		if a.SortOrder < head.SortOrder {
			head = a
		}
	}
	return head.Name
}
