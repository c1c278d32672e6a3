// models/tournament.go
package models

// Tournament category types. The type decides the individual-kumite value
// domain and whether schools pick a team-kumite format.
const (
	TournamentStandard = "standard" // 一般/シード/補欠 with seed ranks
	TournamentWeight   = "weight"   // per-sex weight-class labels
	TournamentDivision = "division" // fixed division labels
	TournamentShinjin  = "shinjin"  // freshman: standard values + 5/3 kumite format
)

// TournamentConfig is one tournament's admin-editable metadata.
type TournamentConfig struct {
	Key         string `json:"key"`  // e.g. "kantou", "shinjin"
	Name        string `json:"name"` // display name on forms
	TemplateRef string `json:"template_ref"`
	Type        string `json:"type"`
	// EligibleGrades filters the entry screen; empty means all grades.
	EligibleGrades []int `json:"eligible_grades,omitempty"`
	// Weight classes per sex, only for weight-type tournaments.
	WeightClassesMale   []string `json:"weight_classes_male,omitempty"`
	WeightClassesFemale []string `json:"weight_classes_female,omitempty"`
	// Division labels, only for division-type tournaments.
	DivisionLabels []string `json:"division_labels,omitempty"`
}

// DecodeTournamentType folds a stored type onto the known set.
func DecodeTournamentType(s string) string {
	switch s {
	case TournamentStandard, TournamentWeight, TournamentDivision, TournamentShinjin:
		return s
	default:
		return TournamentStandard
	}
}

// KumiteLabels returns the allowed individual-kumite labels for one sex, or
// nil when the type uses the standard value set.
func (c TournamentConfig) KumiteLabels(sex string) []string {
	switch DecodeTournamentType(c.Type) {
	case TournamentWeight:
		if sex == SexFemale {
			return c.WeightClassesFemale
		}
		return c.WeightClassesMale
	case TournamentDivision:
		return c.DivisionLabels
	default:
		return nil
	}
}

// GradeEligible reports whether a grade may enter this tournament.
func (c TournamentConfig) GradeEligible(grade int) bool {
	if len(c.EligibleGrades) == 0 {
		return true
	}
	for _, g := range c.EligibleGrades {
		if g == grade {
			return true
		}
	}
	return false
}

// Bound is one headcount cap. Min 0 means no lower bound.
type Bound struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// HeadcountLimits are the global per-category caps, admin-maintained.
type HeadcountLimits struct {
	TeamKata     Bound `json:"team_kata"`
	TeamKumite5  Bound `json:"team_kumite_5"`
	TeamKumite3  Bound `json:"team_kumite_3"`
	IndKataReg   Bound `json:"ind_kata_reg"`
	IndKataSub   Bound `json:"ind_kata_sub"`
	IndKumiteReg Bound `json:"ind_kumite_reg"`
	IndKumiteSub Bound `json:"ind_kumite_sub"`
}

// DefaultLimits mirrors the federation's usual caps; stored blobs are merged
// over these so a partially-written settings blob still validates.
func DefaultLimits() HeadcountLimits {
	return HeadcountLimits{
		TeamKata:     Bound{Min: 3, Max: 4},
		TeamKumite5:  Bound{Min: 5, Max: 7},
		TeamKumite3:  Bound{Min: 3, Max: 4},
		IndKataReg:   Bound{Max: 4},
		IndKataSub:   Bound{Max: 2},
		IndKumiteReg: Bound{Max: 4},
		IndKumiteSub: Bound{Max: 2},
	}
}

// MergeLimits fills zero-valued caps in stored with the defaults. A cap with
// Max 0 is treated as missing — no category ever caps at zero on purpose.
func MergeLimits(stored HeadcountLimits) HeadcountLimits {
	def := DefaultLimits()
	merge := func(b, d Bound) Bound {
		if b.Max == 0 {
			return d
		}
		return b
	}
	return HeadcountLimits{
		TeamKata:     merge(stored.TeamKata, def.TeamKata),
		TeamKumite5:  merge(stored.TeamKumite5, def.TeamKumite5),
		TeamKumite3:  merge(stored.TeamKumite3, def.TeamKumite3),
		IndKataReg:   merge(stored.IndKataReg, def.IndKataReg),
		IndKataSub:   merge(stored.IndKataSub, def.IndKataSub),
		IndKumiteReg: merge(stored.IndKumiteReg, def.IndKumiteReg),
		IndKumiteSub: merge(stored.IndKumiteSub, def.IndKumiteSub),
	}
}

// SystemSettings is the configuration blob: competition year, the tournament
// catalogue, which one is open for entry, and the global caps.
type SystemSettings struct {
	Year             string                      `json:"year"` // era-relative, e.g. "7"
	ActiveTournament string                      `json:"active_tournament"`
	Tournaments      map[string]TournamentConfig `json:"tournaments"`
	Limits           HeadcountLimits             `json:"limits"`
}

// DefaultSettings seeds a fresh deployment with the two fixed tournaments.
func DefaultSettings() SystemSettings {
	return SystemSettings{
		Year:             "",
		ActiveTournament: "kantou",
		Tournaments: map[string]TournamentConfig{
			"kantou": {
				Key:         "kantou",
				Name:        "関東大会予選",
				TemplateRef: "kantou.xlsx",
				Type:        TournamentStandard,
			},
			"shinjin": {
				Key:            "shinjin",
				Name:           "新人大会",
				TemplateRef:    "shinjin.xlsx",
				Type:           TournamentShinjin,
				EligibleGrades: []int{1, 2},
			},
		},
		Limits: DefaultLimits(),
	}
}

// ActiveConfig returns the active tournament's config. A dangling active key
// falls back to a standard-type placeholder so validation still runs.
func (s SystemSettings) ActiveConfig() TournamentConfig {
	if c, ok := s.Tournaments[s.ActiveTournament]; ok {
		c.Type = DecodeTournamentType(c.Type)
		return c
	}
	return TournamentConfig{Key: s.ActiveTournament, Type: TournamentStandard}
}
