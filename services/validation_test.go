// services/validation_test.go
package services

import (
	"fmt"
	"strings"
	"testing"

	"karate-entry-system/models"
)

func athlete(school, name, sex string) models.Athlete {
	return models.Athlete{SchoolID: school, Name: name, Sex: sex, Grade: 2}
}

func teamRec(kata, kumite bool, role models.TeamRole) models.EntryRecord {
	rec := models.EntryRecord{}
	if kata {
		rec.TeamKata = models.TeamSelection{Checked: true, Role: role}
	}
	if kumite {
		rec.TeamKumite = models.TeamSelection{Checked: true, Role: role}
	}
	return rec
}

func indRec(kind models.PlacementKind, rank string) models.EntryRecord {
	return models.EntryRecord{
		IndKata: models.IndSelection{
			Checked: true,
			Value:   models.CategoryValue{Kind: kind},
			Rank:    rank,
		},
	}
}

// buildState registers n male athletes with the same record.
func buildState(n int, rec models.EntryRecord) ([]models.Athlete, map[string]models.EntryRecord) {
	var roster []models.Athlete
	records := map[string]models.EntryRecord{}
	for i := 0; i < n; i++ {
		a := athlete("s1", fmt.Sprintf("選手%d", i), models.SexMale)
		roster = append(roster, a)
		records[a.EntryKey()] = rec
	}
	return roster, records
}

func TestValidateTeamKataBounds(t *testing.T) {
	limits := models.DefaultLimits()

	cases := []struct {
		name    string
		members int
		wantOK  bool
	}{
		{"nobody registered", 0, true},
		{"below minimum", 2, false},
		{"at minimum", 3, true},
		{"at maximum", 4, true},
		{"over maximum", 5, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			roster, records := buildState(c.members, teamRec(true, false, models.TeamRoleRegular))
			v := Validate(roster, records, limits, models.TournamentStandard, models.KumiteModes{})
			if ok := len(v) == 0; ok != c.wantOK {
				t.Errorf("members=%d violations=%v, wantOK=%v", c.members, v, c.wantOK)
			}
		})
	}
}

func TestValidateAlternatesDontCountTowardTeamBounds(t *testing.T) {
	limits := models.DefaultLimits()

	// Three regulars plus two alternates is a legal 3-member team.
	roster, records := buildState(3, teamRec(true, false, models.TeamRoleRegular))
	for i := 0; i < 2; i++ {
		a := athlete("s1", fmt.Sprintf("補欠%d", i), models.SexMale)
		roster = append(roster, a)
		records[a.EntryKey()] = teamRec(true, false, models.TeamRoleAlternate)
	}
	if v := Validate(roster, records, limits, models.TournamentStandard, models.KumiteModes{}); len(v) != 0 {
		t.Errorf("unexpected violations: %v", v)
	}
}

func TestValidateTeamKumiteModes(t *testing.T) {
	limits := models.DefaultLimits()

	cases := []struct {
		name           string
		tournamentType string
		mode           models.TeamKumiteMode
		members        int
		wantOK         bool
	}{
		{"standard always 5-a-side", models.TournamentStandard, models.KumiteMode3, 4, false},
		{"standard full squad", models.TournamentStandard, "", 5, true},
		{"shinjin 3-a-side legal", models.TournamentShinjin, models.KumiteMode3, 4, true},
		{"shinjin 3-a-side over", models.TournamentShinjin, models.KumiteMode3, 5, false},
		{"shinjin 5-a-side short", models.TournamentShinjin, models.KumiteMode5, 4, false},
		{"shinjin not attending skips check", models.TournamentShinjin, models.KumiteModeNone, 2, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			roster, records := buildState(c.members, teamRec(false, true, models.TeamRoleRegular))
			modes := models.KumiteModes{Male: c.mode}
			v := Validate(roster, records, limits, c.tournamentType, modes)
			if ok := len(v) == 0; ok != c.wantOK {
				t.Errorf("violations=%v, wantOK=%v", v, c.wantOK)
			}
		})
	}
}

func TestValidateIndividualCaps(t *testing.T) {
	limits := models.DefaultLimits()

	cases := []struct {
		name   string
		kind   models.PlacementKind
		n      int
		wantOK bool
	}{
		{"regulars at cap", models.PlacementRegular, 4, true},
		{"regulars over cap", models.PlacementRegular, 5, false},
		{"seeds count as regulars", models.PlacementSeed, 5, false},
		{"alternates at cap", models.PlacementAlternate, 2, true},
		{"alternates over cap", models.PlacementAlternate, 3, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rank := ""
			if c.kind == models.PlacementRegular || c.kind == models.PlacementSeed {
				rank = "1"
			}
			roster, records := buildState(c.n, indRec(c.kind, rank))
			v := Validate(roster, records, limits, models.TournamentStandard, models.KumiteModes{})
			if ok := len(v) == 0; ok != c.wantOK {
				t.Errorf("n=%d violations=%v, wantOK=%v", c.n, v, c.wantOK)
			}
		})
	}
}

func TestValidateSexesIndependent(t *testing.T) {
	limits := models.DefaultLimits()

	// Four male and four female individual-kata regulars both sit at the cap.
	var roster []models.Athlete
	records := map[string]models.EntryRecord{}
	for i := 0; i < 4; i++ {
		m := athlete("s1", fmt.Sprintf("男%d", i), models.SexMale)
		f := athlete("s1", fmt.Sprintf("女%d", i), models.SexFemale)
		roster = append(roster, m, f)
		records[m.EntryKey()] = indRec(models.PlacementRegular, "1")
		records[f.EntryKey()] = indRec(models.PlacementRegular, "1")
	}
	if v := Validate(roster, records, limits, models.TournamentStandard, models.KumiteModes{}); len(v) != 0 {
		t.Errorf("unexpected violations: %v", v)
	}
}

func TestValidateWeightClassCountsAsRegular(t *testing.T) {
	limits := models.DefaultLimits()

	var roster []models.Athlete
	records := map[string]models.EntryRecord{}
	for i := 0; i < 5; i++ {
		a := athlete("s1", fmt.Sprintf("選手%d", i), models.SexMale)
		roster = append(roster, a)
		records[a.EntryKey()] = models.EntryRecord{
			IndKumite: models.IndSelection{
				Checked: true,
				Value:   models.CategoryValue{Kind: models.PlacementLabel, Label: "-61kg"},
			},
		}
	}
	v := Validate(roster, records, limits, models.TournamentWeight, models.KumiteModes{})
	if len(v) != 1 || !strings.Contains(v[0], "個人組手(正選手)") {
		t.Errorf("violations = %v, want one 個人組手(正選手) cap message", v)
	}
}

func TestValidateViolationMessage(t *testing.T) {
	limits := models.DefaultLimits()
	roster, records := buildState(2, teamRec(true, false, models.TeamRoleRegular))
	v := Validate(roster, records, limits, models.TournamentStandard, models.KumiteModes{})
	if len(v) != 1 {
		t.Fatalf("violations = %v, want exactly one", v)
	}
	want := "男子 団体形(正選手): 2名 (規定3〜4名)"
	if v[0] != want {
		t.Errorf("message = %q, want %q", v[0], want)
	}
}
