// services/validation.go
package services

import (
	"fmt"

	"karate-entry-system/models"
)

// categoryCounts tallies regular and alternate slots for one sex.
type categoryCounts struct {
	teamKataReg   int
	teamKumiteReg int
	indKataReg    int
	indKataSub    int
	indKumiteReg  int
	indKumiteSub  int
}

// Validate checks one school's merged entry state against the headcount
// limits and returns human-readable violations, empty when the save may
// proceed. Each sex is checked independently; an athlete without a record
// participates in nothing.
func Validate(roster []models.Athlete, records map[string]models.EntryRecord, limits models.HeadcountLimits, tournamentType string, modes models.KumiteModes) []string {
	var violations []string
	tournamentType = models.DecodeTournamentType(tournamentType)

	for _, sex := range []string{models.SexMale, models.SexFemale} {
		c := countForSex(roster, records, sex, tournamentType)

		// Team bounds apply only once somebody is registered; a school
		// simply not fielding a team is not a violation.
		if c.teamKataReg > 0 {
			b := limits.TeamKata
			if c.teamKataReg < b.Min || c.teamKataReg > b.Max {
				violations = append(violations, fmt.Sprintf(
					"%s 団体形(正選手): %d名 (規定%d〜%d名)", sex, c.teamKataReg, b.Min, b.Max))
			}
		}

		if c.teamKumiteReg > 0 {
			mode := models.KumiteMode5
			if tournamentType == models.TournamentShinjin {
				mode = modes.ForSex(sex)
			}
			var b models.Bound
			check := true
			switch mode {
			case models.KumiteMode3:
				b = limits.TeamKumite3
			case models.KumiteModeNone:
				// Format "not attending": entry is blocked upstream, so a
				// leftover registration is not flagged here.
				check = false
			default:
				b = limits.TeamKumite5
			}
			if check && (c.teamKumiteReg < b.Min || c.teamKumiteReg > b.Max) {
				violations = append(violations, fmt.Sprintf(
					"%s 団体組手(正選手): %d名 (規定%d〜%d名)", sex, c.teamKumiteReg, b.Min, b.Max))
			}
		}

		if c.indKataReg > limits.IndKataReg.Max {
			violations = append(violations, fmt.Sprintf(
				"%s 個人形(正選手): %d名 (上限%d名)", sex, c.indKataReg, limits.IndKataReg.Max))
		}
		if c.indKataSub > limits.IndKataSub.Max {
			violations = append(violations, fmt.Sprintf(
				"%s 個人形(補欠): %d名 (上限%d名)", sex, c.indKataSub, limits.IndKataSub.Max))
		}
		if c.indKumiteReg > limits.IndKumiteReg.Max {
			violations = append(violations, fmt.Sprintf(
				"%s 個人組手(正選手): %d名 (上限%d名)", sex, c.indKumiteReg, limits.IndKumiteReg.Max))
		}
		if c.indKumiteSub > limits.IndKumiteSub.Max {
			violations = append(violations, fmt.Sprintf(
				"%s 個人組手(補欠): %d名 (上限%d名)", sex, c.indKumiteSub, limits.IndKumiteSub.Max))
		}
	}
	return violations
}

func countForSex(roster []models.Athlete, records map[string]models.EntryRecord, sex, tournamentType string) categoryCounts {
	var c categoryCounts
	for _, a := range roster {
		if models.DecodeSex(a.Sex) != sex {
			continue
		}
		r, ok := records[a.EntryKey()]
		if !ok {
			continue
		}

		if r.TeamKata.Checked && models.DecodeTeamRole(string(r.TeamKata.Role)) == models.TeamRoleRegular {
			c.teamKataReg++
		}
		if r.TeamKumite.Checked && models.DecodeTeamRole(string(r.TeamKumite.Role)) == models.TeamRoleRegular {
			c.teamKumiteReg++
		}

		if r.IndKata.Checked {
			switch r.IndKata.Value.Kind {
			case models.PlacementRegular, models.PlacementSeed:
				c.indKataReg++
			case models.PlacementAlternate:
				c.indKataSub++
			}
		}

		if r.IndKumite.Checked {
			reg, sub := kumiteSlot(r.IndKumite.Value, tournamentType)
			c.indKumiteReg += reg
			c.indKumiteSub += sub
		}
	}
	return c
}

// kumiteSlot decides which individual-kumite counter a value feeds. For the
// standard value set only 一般/シード take a regular slot; for weight and
// division tournaments any concrete class label does.
func kumiteSlot(v models.CategoryValue, tournamentType string) (reg, sub int) {
	switch tournamentType {
	case models.TournamentWeight, models.TournamentDivision:
		switch v.Kind {
		case models.PlacementLabel:
			return 1, 0
		case models.PlacementAlternate:
			return 0, 1
		}
	default:
		switch v.Kind {
		case models.PlacementRegular, models.PlacementSeed:
			return 1, 0
		case models.PlacementAlternate:
			return 0, 1
		}
	}
	return 0, 0
}
