// services/reconcile.go
package services

import (
	"fmt"

	"karate-entry-system/models"
	"karate-entry-system/utils"
)

// RawEntryInput is one athlete's slice of the submitted entry form, still in
// UI vocabulary. Team fields carry the three-way selection; individual
// fields carry whatever the tournament type's selector offered.
type RawEntryInput struct {
	TeamKata      string `json:"team_kata"`
	TeamKumite    string `json:"team_kumite"`
	IndKata       string `json:"ind_kata"`
	IndKataRank   string `json:"ind_kata_rank"`
	IndKumite     string `json:"ind_kumite"`
	IndKumiteRank string `json:"ind_kumite_rank"`
}

// FieldError is one per-athlete form problem. Collecting them does not stop
// the other athletes from being processed, but any error aborts the whole
// batch write.
type FieldError struct {
	AthleteKey string `json:"athlete_key"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

// Reconcile merges a submitted form into the previous entry state. Every
// submitted athlete's record is rebuilt from scratch (whole-record
// overwrite); athletes not on the form keep their previous record untouched.
// sexByKey supplies each athlete's sex so kumite labels resolve against the
// right class list. Resubmitting the same form yields the same records.
func Reconcile(inputs map[string]RawEntryInput, prev map[string]models.EntryRecord, cfg models.TournamentConfig, sexByKey map[string]string) (map[string]models.EntryRecord, []FieldError) {
	out := make(map[string]models.EntryRecord, len(prev)+len(inputs))
	for k, v := range prev {
		out[k] = v
	}

	var errs []FieldError
	for key, in := range inputs {
		rec, recErrs := buildRecord(key, in, cfg, models.DecodeSex(sexByKey[key]))
		errs = append(errs, recErrs...)
		out[key] = rec
	}
	return out, errs
}

func buildRecord(key string, in RawEntryInput, cfg models.TournamentConfig, sex string) (models.EntryRecord, []FieldError) {
	var errs []FieldError
	rec := models.EntryRecord{
		TeamKata:   decodeTeamSelection(in.TeamKata),
		TeamKumite: decodeTeamSelection(in.TeamKumite),
	}

	tournamentType := models.DecodeTournamentType(cfg.Type)

	kataValue := decodeIndKata(in.IndKata, tournamentType)
	rec.IndKata = models.IndSelection{
		Checked: kataValue.Kind != models.PlacementNone,
		Value:   kataValue,
	}
	rec.IndKata.Rank, errs = applyRankRule(key, "ind_kata_rank", kataValue, in.IndKataRank, errs)

	var kumiteValue models.CategoryValue
	if labels := cfg.KumiteLabels(sex); labels != nil {
		kumiteValue = models.DecodeLabelValue(in.IndKumite, labels)
	} else {
		kumiteValue = decodeIndKata(in.IndKumite, tournamentType)
	}
	rec.IndKumite = models.IndSelection{
		Checked: kumiteValue.Kind != models.PlacementNone,
		Value:   kumiteValue,
	}
	rec.IndKumite.Rank, errs = applyRankRule(key, "ind_kumite_rank", kumiteValue, in.IndKumiteRank, errs)

	return rec, errs
}

// decodeTeamSelection maps the three-way UI selection onto (checked, role).
func decodeTeamSelection(s string) models.TeamSelection {
	role := models.DecodeTeamRole(s)
	return models.TeamSelection{
		Checked: role != models.TeamRoleNone,
		Role:    role,
	}
}

// decodeIndKata decodes a standard-set individual selection. Outside
// standard-type tournaments シード is not on the selector, so a stored one is
// a stale value and falls to the not-participating default.
func decodeIndKata(s, tournamentType string) models.CategoryValue {
	v := models.DecodeStandardValue(s)
	if tournamentType != models.TournamentStandard && v.Kind == models.PlacementSeed {
		return models.CategoryValue{Kind: models.PlacementNone}
	}
	return v
}

// applyRankRule enforces the rank invariant: a rank is required (and digit-
// normalized) for 一般/シード placements and forced empty for everything
// else, so stale typed text never persists.
func applyRankRule(key, field string, v models.CategoryValue, rank string, errs []FieldError) (string, []FieldError) {
	if !v.RankRequired() {
		return "", errs
	}
	normalized := utils.NormalizeDigits(rank)
	if normalized == "" {
		errs = append(errs, FieldError{
			AthleteKey: key,
			Field:      field,
			Message:    fmt.Sprintf("%s: 順位(数字)を入力してください", key),
		})
	}
	return normalized, errs
}
