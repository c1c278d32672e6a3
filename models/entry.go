// models/entry.go
package models

// PlacementKind discriminates what an individual-category selection means.
// The same form field carries different domains depending on the tournament
// type, so the stored value is a tagged pair instead of a raw string.
type PlacementKind string

const (
	PlacementNone      PlacementKind = "none"
	PlacementRegular   PlacementKind = "regular"
	PlacementSeed      PlacementKind = "seed"
	PlacementAlternate PlacementKind = "alternate"
	// PlacementLabel carries a concrete weight-class or division name in
	// CategoryValue.Label. Counts as a regular slot.
	PlacementLabel PlacementKind = "label"
)

// Team roles for 団体形 / 団体組手.
type TeamRole string

const (
	TeamRoleNone      TeamRole = "none"
	TeamRoleRegular   TeamRole = "regular"
	TeamRoleAlternate TeamRole = "alternate"
)

// Form labels the UI submits and the reports render.
const (
	LabelRegular      = "一般"
	LabelSeed         = "シード"
	LabelAlternate    = "補欠"
	LabelTeamRegular  = "正選手"
	LabelNotAttending = "不参加"
)

// CategoryValue is the tagged union behind an individual-category selection.
type CategoryValue struct {
	Kind  PlacementKind `json:"kind"`
	Label string        `json:"label,omitempty"`
}

// IsRegularSlot reports whether the value occupies a regular (non-alternate)
// competitor slot for headcount purposes. Seeds and concrete weight/division
// labels count the same as 一般.
func (v CategoryValue) IsRegularSlot() bool {
	return v.Kind == PlacementRegular || v.Kind == PlacementSeed || v.Kind == PlacementLabel
}

// RankRequired reports whether a rank number must accompany this value.
func (v CategoryValue) RankRequired() bool {
	return v.Kind == PlacementRegular || v.Kind == PlacementSeed
}

// TeamSelection is one team-category checkbox plus its role radio.
type TeamSelection struct {
	Checked bool     `json:"checked"`
	Role    TeamRole `json:"role"`
}

// IndSelection is one individual-category selection. Rank is non-empty only
// when Value.RankRequired() — reconciliation enforces that.
type IndSelection struct {
	Checked bool          `json:"checked"`
	Value   CategoryValue `json:"value"`
	Rank    string        `json:"rank,omitempty"`
}

// EntryRecord is everything one athlete entered for one tournament. Saves
// overwrite the whole record; there is no field-level merge.
type EntryRecord struct {
	TeamKata   TeamSelection `json:"team_kata"`
	TeamKumite TeamSelection `json:"team_kumite"`
	IndKata    IndSelection  `json:"ind_kata"`
	IndKumite  IndSelection  `json:"ind_kumite"`
}

// Participating reports whether any category flag is set — only these
// athletes appear on the submission form.
func (r EntryRecord) Participating() bool {
	return r.TeamKata.Checked || r.TeamKumite.Checked || r.IndKata.Checked || r.IndKumite.Checked
}

// TeamKumiteMode selects which team-kumite bound applies for a school/sex.
// Only meaningful for the 新人戦; every other tournament plays 5-a-side.
type TeamKumiteMode string

const (
	KumiteMode5    TeamKumiteMode = "5"
	KumiteMode3    TeamKumiteMode = "3"
	KumiteModeNone TeamKumiteMode = "none"
)

// KumiteModes is the per-sex team-kumite format a school picked.
type KumiteModes struct {
	Male   TeamKumiteMode `json:"male"`
	Female TeamKumiteMode `json:"female"`
}

// ForSex returns the mode for one sex, defaulting to 5-a-side.
func (m KumiteModes) ForSex(sex string) TeamKumiteMode {
	var v TeamKumiteMode
	if sex == SexFemale {
		v = m.Female
	} else {
		v = m.Male
	}
	return DecodeKumiteMode(string(v))
}

// EntryBook is one tournament's entry map blob: every school's records keyed
// by "{schoolID}_{athleteName}", plus each school's kumite format choice.
type EntryBook struct {
	Records map[string]EntryRecord `json:"records"`
	Modes   map[string]KumiteModes `json:"modes,omitempty"`
}

// NewEntryBook returns an empty book with allocated maps.
func NewEntryBook() *EntryBook {
	return &EntryBook{
		Records: map[string]EntryRecord{},
		Modes:   map[string]KumiteModes{},
	}
}

// RecordFor looks up an athlete's record. A missing record means the athlete
// participates in nothing, which is exactly the zero EntryRecord.
func (b *EntryBook) RecordFor(key string) EntryRecord {
	if b == nil || b.Records == nil {
		return EntryRecord{}
	}
	return b.Records[key]
}

// --- defensive decoders ---
//
// Stored blobs outlive code revisions, so every enum read goes through one
// of these: unknown input maps to the defined default, never to an error.

// DecodeTeamRole folds a stored team role onto the known set.
func DecodeTeamRole(s string) TeamRole {
	switch s {
	case string(TeamRoleRegular), LabelTeamRegular:
		return TeamRoleRegular
	case string(TeamRoleAlternate), LabelAlternate:
		return TeamRoleAlternate
	default:
		return TeamRoleNone
	}
}

// DecodeStandardValue decodes a standard-type individual selection
// (一般 / シード / 補欠). Unknown input means not participating.
func DecodeStandardValue(s string) CategoryValue {
	switch s {
	case string(PlacementRegular), LabelRegular:
		return CategoryValue{Kind: PlacementRegular}
	case string(PlacementSeed), LabelSeed:
		return CategoryValue{Kind: PlacementSeed}
	case string(PlacementAlternate), LabelAlternate:
		return CategoryValue{Kind: PlacementAlternate}
	default:
		return CategoryValue{Kind: PlacementNone}
	}
}

// DecodeLabelValue decodes a weight-class or division selection against the
// allowed label list. 補欠 stays an alternate; anything not on the list
// (including 不参加 and legacy leftovers) means not participating.
func DecodeLabelValue(s string, allowed []string) CategoryValue {
	switch s {
	case "", LabelNotAttending, string(PlacementNone), string(PlacementSeed), LabelSeed:
		return CategoryValue{Kind: PlacementNone}
	case string(PlacementAlternate), LabelAlternate:
		return CategoryValue{Kind: PlacementAlternate}
	}
	for _, l := range allowed {
		if s == l {
			return CategoryValue{Kind: PlacementLabel, Label: l}
		}
	}
	return CategoryValue{Kind: PlacementNone}
}

// DecodeKumiteMode folds a stored mode onto {5, 3, none}, defaulting to 5.
func DecodeKumiteMode(s string) TeamKumiteMode {
	switch s {
	case string(KumiteMode3), "3人制":
		return KumiteMode3
	case string(KumiteModeNone), LabelNotAttending:
		return KumiteModeNone
	default:
		return KumiteMode5
	}
}
