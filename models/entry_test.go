// models/entry_test.go
package models

import "testing"

func TestDecodeTeamRole(t *testing.T) {
	cases := []struct {
		in   string
		want TeamRole
	}{
		{"regular", TeamRoleRegular},
		{"正選手", TeamRoleRegular},
		{"alternate", TeamRoleAlternate},
		{"補欠", TeamRoleAlternate},
		{"", TeamRoleNone},
		{"不参加", TeamRoleNone},
		{"TRUE", TeamRoleNone},
		{"garbage", TeamRoleNone},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			if got := DecodeTeamRole(c.in); got != c.want {
				t.Errorf("DecodeTeamRole(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestDecodeStandardValue(t *testing.T) {
	cases := []struct {
		in   string
		want PlacementKind
	}{
		{"一般", PlacementRegular},
		{"regular", PlacementRegular},
		{"シード", PlacementSeed},
		{"seed", PlacementSeed},
		{"補欠", PlacementAlternate},
		{"", PlacementNone},
		{"不参加", PlacementNone},
		{"-60kg", PlacementNone},
		{"old-sheet-leftover", PlacementNone},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			if got := DecodeStandardValue(c.in); got.Kind != c.want {
				t.Errorf("DecodeStandardValue(%q).Kind = %q, want %q", c.in, got.Kind, c.want)
			}
		})
	}
}

func TestDecodeLabelValue(t *testing.T) {
	allowed := []string{"-55kg", "-61kg", "+61kg"}

	cases := []struct {
		name      string
		in        string
		wantKind  PlacementKind
		wantLabel string
	}{
		{"listed class", "-61kg", PlacementLabel, "-61kg"},
		{"alternate", "補欠", PlacementAlternate, ""},
		{"empty", "", PlacementNone, ""},
		{"not attending", "不参加", PlacementNone, ""},
		{"stale seed", "シード", PlacementNone, ""},
		{"class from another tournament", "-68kg", PlacementNone, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DecodeLabelValue(c.in, allowed)
			if got.Kind != c.wantKind || got.Label != c.wantLabel {
				t.Errorf("DecodeLabelValue(%q) = %+v, want kind=%q label=%q", c.in, got, c.wantKind, c.wantLabel)
			}
		})
	}
}

func TestDecodeKumiteMode(t *testing.T) {
	cases := []struct {
		in   string
		want TeamKumiteMode
	}{
		{"3", KumiteMode3},
		{"3人制", KumiteMode3},
		{"none", KumiteModeNone},
		{"不参加", KumiteModeNone},
		{"5", KumiteMode5},
		{"", KumiteMode5},
		{"whatever", KumiteMode5},
	}
	for _, c := range cases {
		if got := DecodeKumiteMode(c.in); got != c.want {
			t.Errorf("DecodeKumiteMode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestKumiteModesForSex(t *testing.T) {
	m := KumiteModes{Male: KumiteMode3}
	if got := m.ForSex(SexMale); got != KumiteMode3 {
		t.Errorf("male mode = %q, want 3", got)
	}
	// Unset female mode falls back to 5-a-side.
	if got := m.ForSex(SexFemale); got != KumiteMode5 {
		t.Errorf("female mode = %q, want 5", got)
	}
}

func TestCategoryValueSlots(t *testing.T) {
	cases := []struct {
		v             CategoryValue
		regular, rank bool
	}{
		{CategoryValue{Kind: PlacementRegular}, true, true},
		{CategoryValue{Kind: PlacementSeed}, true, true},
		{CategoryValue{Kind: PlacementLabel, Label: "-61kg"}, true, false},
		{CategoryValue{Kind: PlacementAlternate}, false, false},
		{CategoryValue{Kind: PlacementNone}, false, false},
	}
	for _, c := range cases {
		if got := c.v.IsRegularSlot(); got != c.regular {
			t.Errorf("%+v IsRegularSlot = %v, want %v", c.v, got, c.regular)
		}
		if got := c.v.RankRequired(); got != c.rank {
			t.Errorf("%+v RankRequired = %v, want %v", c.v, got, c.rank)
		}
	}
}

func TestRecordForMissing(t *testing.T) {
	book := NewEntryBook()
	rec := book.RecordFor("school-1_山田太郎")
	if rec.Participating() {
		t.Error("missing record must mean not participating")
	}

	var nilBook *EntryBook
	if nilBook.RecordFor("any").Participating() {
		t.Error("nil book must yield the zero record")
	}
}

func TestDecodeSex(t *testing.T) {
	cases := []struct{ in, want string }{
		{"男子", SexMale},
		{"女子", SexFemale},
		{"女", SexFemale},
		{"male", SexMale},
		{"", SexMale},
		{"garbage", SexMale},
	}
	for _, c := range cases {
		if got := DecodeSex(c.in); got != c.want {
			t.Errorf("DecodeSex(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
