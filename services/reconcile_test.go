// services/reconcile_test.go
package services

import (
	"reflect"
	"testing"

	"karate-entry-system/models"
)

var standardCfg = models.TournamentConfig{Key: "kantou", Type: models.TournamentStandard}

func TestReconcileWholeRecordOverwrite(t *testing.T) {
	key := "s1_山田太郎"
	prev := map[string]models.EntryRecord{
		key: {
			TeamKata: models.TeamSelection{Checked: true, Role: models.TeamRoleRegular},
			IndKata: models.IndSelection{
				Checked: true,
				Value:   models.CategoryValue{Kind: models.PlacementRegular},
				Rank:    "2",
			},
		},
	}

	// The resubmitted form only checks team kumite; everything else must
	// come back cleared, not merged.
	inputs := map[string]RawEntryInput{
		key: {TeamKumite: "正選手"},
	}
	out, errs := Reconcile(inputs, prev, standardCfg, map[string]string{key: models.SexMale})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	rec := out[key]
	if rec.TeamKata.Checked || rec.IndKata.Checked || rec.IndKata.Rank != "" {
		t.Errorf("previous fields survived the overwrite: %+v", rec)
	}
	if !rec.TeamKumite.Checked || rec.TeamKumite.Role != models.TeamRoleRegular {
		t.Errorf("team kumite not registered: %+v", rec.TeamKumite)
	}
}

func TestReconcileLeavesUnsubmittedRecords(t *testing.T) {
	prev := map[string]models.EntryRecord{
		"s1_佐藤": {TeamKata: models.TeamSelection{Checked: true, Role: models.TeamRoleRegular}},
		"s2_他校": {TeamKata: models.TeamSelection{Checked: true, Role: models.TeamRoleRegular}},
	}
	inputs := map[string]RawEntryInput{
		"s1_佐藤": {},
	}
	out, _ := Reconcile(inputs, prev, standardCfg, map[string]string{"s1_佐藤": models.SexMale})

	if out["s1_佐藤"].TeamKata.Checked {
		t.Error("submitted empty form must clear the record")
	}
	if !out["s2_他校"].TeamKata.Checked {
		t.Error("another school's record must stay untouched")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	key := "s1_山田"
	inputs := map[string]RawEntryInput{
		key: {
			TeamKata:      "正選手",
			IndKata:       "一般",
			IndKataRank:   "3",
			IndKumite:     "シード",
			IndKumiteRank: "1",
		},
	}
	sexes := map[string]string{key: models.SexMale}

	first, errs := Reconcile(inputs, map[string]models.EntryRecord{}, standardCfg, sexes)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	second, errs := Reconcile(inputs, first, standardCfg, sexes)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors on resubmit: %v", errs)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resubmitting the same form changed the state:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestReconcileRankRequired(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		rank    string
		wantErr bool
	}{
		{"regular without rank", "一般", "", true},
		{"regular with rank", "一般", "2", false},
		{"seed without rank", "シード", "  ", true},
		{"seed with rank", "シード", "1", false},
		{"alternate needs no rank", "補欠", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			key := "s1_選手"
			inputs := map[string]RawEntryInput{
				key: {IndKata: c.value, IndKataRank: c.rank},
			}
			_, errs := Reconcile(inputs, nil, standardCfg, map[string]string{key: models.SexMale})
			if (len(errs) > 0) != c.wantErr {
				t.Errorf("errs = %v, wantErr = %v", errs, c.wantErr)
			}
			if c.wantErr && errs[0].Field != "ind_kata_rank" {
				t.Errorf("error field = %q, want ind_kata_rank", errs[0].Field)
			}
		})
	}
}

func TestReconcileNormalizesFullWidthRank(t *testing.T) {
	key := "s1_選手"
	inputs := map[string]RawEntryInput{
		key: {IndKata: "一般", IndKataRank: "３"},
	}
	out, errs := Reconcile(inputs, nil, standardCfg, map[string]string{key: models.SexMale})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := out[key].IndKata.Rank; got != "3" {
		t.Errorf("rank = %q, want ASCII 3", got)
	}
}

func TestReconcileClearsStaleRank(t *testing.T) {
	key := "s1_選手"
	inputs := map[string]RawEntryInput{
		// Switched from 一般 to 補欠 but the rank box still holds old text.
		key: {IndKata: "補欠", IndKataRank: "2"},
	}
	out, errs := Reconcile(inputs, nil, standardCfg, map[string]string{key: models.SexMale})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := out[key].IndKata.Rank; got != "" {
		t.Errorf("stale rank persisted: %q", got)
	}
}

func TestReconcileSeedOnlyOnStandard(t *testing.T) {
	shinjin := models.TournamentConfig{Key: "shinjin", Type: models.TournamentShinjin}
	key := "s1_一年生"
	inputs := map[string]RawEntryInput{
		key: {IndKata: "シード", IndKataRank: "1"},
	}
	out, errs := Reconcile(inputs, nil, shinjin, map[string]string{key: models.SexMale})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if out[key].IndKata.Checked {
		t.Errorf("stale seed survived outside a standard tournament: %+v", out[key].IndKata)
	}
}

func TestReconcileWeightClassBySex(t *testing.T) {
	cfg := models.TournamentConfig{
		Key:                 "weight",
		Type:                models.TournamentWeight,
		WeightClassesMale:   []string{"-61kg", "-68kg"},
		WeightClassesFemale: []string{"-48kg", "-53kg"},
	}
	male, female := "s1_男子選手", "s1_女子選手"
	inputs := map[string]RawEntryInput{
		male:   {IndKumite: "-61kg"},
		female: {IndKumite: "-61kg"}, // a male class; not on her list
	}
	sexes := map[string]string{male: models.SexMale, female: models.SexFemale}

	out, errs := Reconcile(inputs, nil, cfg, sexes)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if got := out[male].IndKumite; !got.Checked || got.Value.Label != "-61kg" {
		t.Errorf("male weight class = %+v, want -61kg", got)
	}
	if out[female].IndKumite.Checked {
		t.Errorf("female entry accepted a class not on her list: %+v", out[female].IndKumite)
	}
}
