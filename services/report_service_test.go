// services/report_service_test.go
package services

import (
	"strings"
	"testing"

	"karate-entry-system/models"
)

func TestFormRow(t *testing.T) {
	cases := []struct {
		i, want int
	}{
		{0, 16},
		{1, 17},
		{21, 37},  // last slot on page one
		{22, 62},  // first slot on page two
		{43, 83},  // last slot on page two
		{44, 108}, // first slot on page three
	}
	for _, c := range cases {
		if got := FormRow(c.i); got != c.want {
			t.Errorf("FormRow(%d) = %d, want %d", c.i, got, c.want)
		}
	}
}

func TestTeamGlyph(t *testing.T) {
	cases := []struct {
		name string
		sel  models.TeamSelection
		want string
	}{
		{"unchecked", models.TeamSelection{}, ""},
		{"regular", models.TeamSelection{Checked: true, Role: models.TeamRoleRegular}, "○"},
		{"alternate", models.TeamSelection{Checked: true, Role: models.TeamRoleAlternate}, "補"},
		{"checked with garbage role", models.TeamSelection{Checked: true, Role: "??"}, "○"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := teamGlyph(c.sel); got != c.want {
				t.Errorf("teamGlyph = %q, want %q", got, c.want)
			}
		})
	}
}

func TestIndividualGlyph(t *testing.T) {
	cases := []struct {
		name string
		sel  models.IndSelection
		want string
	}{
		{"unchecked", models.IndSelection{}, ""},
		{"regular rank 2", models.IndSelection{Checked: true, Value: models.CategoryValue{Kind: models.PlacementRegular}, Rank: "2"}, "○2"},
		{"seed rank 1", models.IndSelection{Checked: true, Value: models.CategoryValue{Kind: models.PlacementSeed}, Rank: "1"}, "シ1"},
		{"alternate", models.IndSelection{Checked: true, Value: models.CategoryValue{Kind: models.PlacementAlternate}}, "補"},
		{"weight class", models.IndSelection{Checked: true, Value: models.CategoryValue{Kind: models.PlacementLabel, Label: "-61kg"}}, "-61kg"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := individualGlyph(c.sel); got != c.want {
				t.Errorf("individualGlyph = %q, want %q", got, c.want)
			}
		})
	}
}

func TestParticipatingAthletesOrder(t *testing.T) {
	roster := []models.Athlete{
		{SchoolID: "s1", Name: "鈴木", Sex: models.SexFemale, Grade: 3},
		{SchoolID: "s1", Name: "伊藤", Sex: models.SexMale, Grade: 1},
		{SchoolID: "s1", Name: "山田", Sex: models.SexMale, Grade: 3},
		{SchoolID: "s1", Name: "田中", Sex: models.SexMale, Grade: 3},
		{SchoolID: "s1", Name: "控え組", Sex: models.SexMale, Grade: 2}, // no record
	}
	book := models.NewEntryBook()
	for _, a := range roster[:4] {
		book.Records[a.EntryKey()] = models.EntryRecord{
			TeamKata: models.TeamSelection{Checked: true, Role: models.TeamRoleRegular},
		}
	}

	got := ParticipatingAthletes(roster, book)
	var names []string
	for _, a := range got {
		names = append(names, a.Name)
	}
	// Male before female, grade 3 before 1, ties by name.
	want := []string{"山田", "田中", "伊藤", "鈴木"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", names, want)
	}
}

func TestDetectDuplicateSeeds(t *testing.T) {
	roster := []models.Athlete{
		{SchoolID: "s1", Name: "山田", Sex: models.SexMale},
		{SchoolID: "s2", Name: "佐藤", Sex: models.SexMale},
		{SchoolID: "s1", Name: "鈴木", Sex: models.SexFemale},
	}
	book := models.NewEntryBook()
	seed := func(rank string) models.EntryRecord {
		return models.EntryRecord{
			IndKata: models.IndSelection{
				Checked: true,
				Value:   models.CategoryValue{Kind: models.PlacementSeed},
				Rank:    rank,
			},
		}
	}
	book.Records["s1_山田"] = seed("1")
	book.Records["s2_佐藤"] = seed("1")
	book.Records["s1_鈴木"] = seed("1") // other sex, not a conflict

	msgs := DetectDuplicateSeeds(roster, book)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v, want exactly one conflict", msgs)
	}
	for _, frag := range []string{"男子個人形", "シード順位1", "山田", "佐藤"} {
		if !strings.Contains(msgs[0], frag) {
			t.Errorf("message %q missing %q", msgs[0], frag)
		}
	}
}

func TestDetectDuplicateSeedsIgnoresRegularRanks(t *testing.T) {
	roster := []models.Athlete{
		{SchoolID: "s1", Name: "山田", Sex: models.SexMale},
		{SchoolID: "s2", Name: "佐藤", Sex: models.SexMale},
	}
	book := models.NewEntryBook()
	regular := models.EntryRecord{
		IndKata: models.IndSelection{
			Checked: true,
			Value:   models.CategoryValue{Kind: models.PlacementRegular},
			Rank:    "1",
		},
	}
	book.Records["s1_山田"] = regular
	book.Records["s2_佐藤"] = regular

	// 一般 ranks are per-school orderings; duplicates across schools are fine.
	if msgs := DetectDuplicateSeeds(roster, book); len(msgs) != 0 {
		t.Errorf("unexpected conflicts: %v", msgs)
	}
}

func TestDisplayValue(t *testing.T) {
	cases := []struct {
		sel  models.IndSelection
		want string
	}{
		{models.IndSelection{}, ""},
		{models.IndSelection{Checked: true, Value: models.CategoryValue{Kind: models.PlacementRegular}}, "一般"},
		{models.IndSelection{Checked: true, Value: models.CategoryValue{Kind: models.PlacementSeed}}, "シード"},
		{models.IndSelection{Checked: true, Value: models.CategoryValue{Kind: models.PlacementAlternate}}, "補欠"},
		{models.IndSelection{Checked: true, Value: models.CategoryValue{Kind: models.PlacementLabel, Label: "中堅"}}, "中堅"},
	}
	for _, c := range cases {
		if got := displayValue(c.sel); got != c.want {
			t.Errorf("displayValue(%+v) = %q, want %q", c.sel, got, c.want)
		}
	}
}
