// services/report_service.go
package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"karate-entry-system/models"
	"karate-entry-system/store"
	"karate-entry-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ErrTemplateMissing names a submission-form template that could not be
// loaded; no artifact is produced.
var ErrTemplateMissing = errors.New("form template missing")

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Submission form template layout. Fixed cells for the header block, 1-based
// columns for the athlete grid. Athletes wrap into repeating page blocks:
// row = formStartRow + (i / formPageCapacity) * formPageOffset + (i % formPageCapacity).
const (
	formStartRow     = 16
	formPageCapacity = 22
	formPageOffset   = 46
)

var formHeaderCells = struct {
	tournamentName, year, date         string
	schoolName, principal, headAdvisor string
}{
	tournamentName: "I3", year: "E3", date: "M7",
	schoolName: "C8", principal: "C9", headAdvisor: "O9",
}

var formAdvisorCells = []struct{ name, d1, d2 string }{
	{"B42", "C42", "F42"},
	{"B43", "C43", "F43"},
	{"K42", "Q42", "U42"},
	{"K43", "Q43", "U43"},
}

var formColumns = struct {
	name, grade, dob, jkf int
	male, female          struct{ teamKata, teamKumite, kata, kumite int }
}{
	name: 2, grade: 3, dob: 4, jkf: 19,
	male:   struct{ teamKata, teamKumite, kata, kumite int }{11, 12, 13, 14},
	female: struct{ teamKata, teamKumite, kata, kumite int }{15, 16, 17, 18},
}

// ReportService builds every Excel/CSV artifact: the per-school submission
// form and the federation's aggregate workbooks.
type ReportService struct {
	DB       *gorm.DB
	Settings *store.SettingsStore
	Entries  *store.EntryStore
}

func NewReportService(db *gorm.DB, settings *store.SettingsStore, entries *store.EntryStore) *ReportService {
	return &ReportService{DB: db, Settings: settings, Entries: entries}
}

func (s *ReportService) templatePath(ref string) string {
	dir := os.Getenv("TEMPLATE_DIR")
	if dir == "" {
		dir = "templates"
	}
	return filepath.Join(dir, ref)
}

// --- per-school submission form ---

// BuildSchoolForm fills the tournament's template with one school's header
// block and participating athletes and returns the workbook bytes.
func (s *ReportService) BuildSchoolForm(settings models.SystemSettings, cfg models.TournamentConfig, school models.SchoolAccount, roster []models.Athlete, book *models.EntryBook) ([]byte, error) {
	f, err := excelize.OpenFile(s.templatePath(cfg.TemplateRef))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, cfg.TemplateRef)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	utils.SafeSetCell(f, sheet, formHeaderCells.year, settings.Year)
	utils.SafeSetCell(f, sheet, formHeaderCells.tournamentName, cfg.Name)
	utils.SafeSetCell(f, sheet, formHeaderCells.date, utils.ReiwaDate(time.Now()))
	utils.SafeSetCell(f, sheet, formHeaderCells.schoolName, school.Name)
	utils.SafeSetCell(f, sheet, formHeaderCells.principal, school.Principal)
	utils.SafeSetCell(f, sheet, formHeaderCells.headAdvisor, school.HeadAdvisorName())

	advisors := school.Advisors
	for i, a := range advisors {
		if i >= len(formAdvisorCells) {
			break
		}
		cells := formAdvisorCells[i]
		utils.SafeSetCell(f, sheet, cells.name, a.Name)
		utils.SafeSetCellCentered(f, sheet, cells.d1, attendanceGlyph(a.Day1))
		utils.SafeSetCellCentered(f, sheet, cells.d2, attendanceGlyph(a.Day2))
	}

	participants := ParticipatingAthletes(roster, book)
	for i, a := range participants {
		rec := book.RecordFor(a.EntryKey())
		row := FormRow(i)

		utils.SafeSetCell(f, sheet, utils.CellRef(formColumns.name, row), a.Name)
		utils.SafeSetCell(f, sheet, utils.CellRef(formColumns.grade, row), a.Grade)
		utils.SafeSetCell(f, sheet, utils.CellRef(formColumns.dob, row), a.DateOfBirth)
		utils.SafeSetCell(f, sheet, utils.CellRef(formColumns.jkf, row), a.ExternalID)

		cols := formColumns.male
		if models.DecodeSex(a.Sex) == models.SexFemale {
			cols = formColumns.female
		}
		if g := teamGlyph(rec.TeamKata); g != "" {
			utils.SafeSetCellCentered(f, sheet, utils.CellRef(cols.teamKata, row), g)
		}
		if g := teamGlyph(rec.TeamKumite); g != "" {
			utils.SafeSetCellCentered(f, sheet, utils.CellRef(cols.teamKumite, row), g)
		}
		if g := individualGlyph(rec.IndKata); g != "" {
			utils.SafeSetCellCentered(f, sheet, utils.CellRef(cols.kata, row), g)
		}
		if g := individualGlyph(rec.IndKumite); g != "" {
			utils.SafeSetCellCentered(f, sheet, utils.CellRef(cols.kumite, row), g)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write form workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// FormRow maps a participant index to its template row.
func FormRow(i int) int {
	return formStartRow + (i/formPageCapacity)*formPageOffset + (i % formPageCapacity)
}

// ParticipatingAthletes filters the roster to athletes with any category
// flag set and orders them the way the template expects: male before
// female, grade 3→1, then name.
func ParticipatingAthletes(roster []models.Athlete, book *models.EntryBook) []models.Athlete {
	var out []models.Athlete
	for _, a := range roster {
		if book.RecordFor(a.EntryKey()).Participating() {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := models.DecodeSex(out[i].Sex), models.DecodeSex(out[j].Sex)
		if si != sj {
			return si == models.SexMale
		}
		if out[i].Grade != out[j].Grade {
			return out[i].Grade > out[j].Grade
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func attendanceGlyph(present bool) string {
	if present {
		return "○"
	}
	return "×"
}

// teamGlyph renders a team-category mark: ○ for a regular, 補 for the
// alternate, nothing when not entered.
func teamGlyph(sel models.TeamSelection) string {
	if !sel.Checked {
		return ""
	}
	if models.DecodeTeamRole(string(sel.Role)) == models.TeamRoleAlternate {
		return "補"
	}
	return "○"
}

// individualGlyph renders an individual-category mark: ○{rank} for 一般,
// シ{rank} for seeds, 補 for alternates, the raw class label for weight and
// division tournaments.
func individualGlyph(sel models.IndSelection) string {
	if !sel.Checked {
		return ""
	}
	switch sel.Value.Kind {
	case models.PlacementRegular:
		return "○" + sel.Rank
	case models.PlacementSeed:
		return "シ" + sel.Rank
	case models.PlacementAlternate:
		return "補"
	case models.PlacementLabel:
		return sel.Value.Label
	}
	return ""
}

// displayValue is the CSV/report wording for a stored individual selection.
func displayValue(sel models.IndSelection) string {
	if !sel.Checked {
		return ""
	}
	switch sel.Value.Kind {
	case models.PlacementRegular:
		return models.LabelRegular
	case models.PlacementSeed:
		return models.LabelSeed
	case models.PlacementAlternate:
		return models.LabelAlternate
	case models.PlacementLabel:
		return sel.Value.Label
	}
	return ""
}

func displayTeam(sel models.TeamSelection) string {
	if !sel.Checked {
		return ""
	}
	if models.DecodeTeamRole(string(sel.Role)) == models.TeamRoleAlternate {
		return models.LabelAlternate
	}
	return models.LabelTeamRegular
}

// --- aggregate data loading ---

type reportData struct {
	settings models.SystemSettings
	cfg      models.TournamentConfig
	schools  []models.SchoolAccount
	roster   []models.Athlete
	book     *models.EntryBook
}

func (s *ReportService) loadReportData() (*reportData, error) {
	settings, err := s.Settings.Load()
	if err != nil {
		return nil, err
	}
	cfg := settings.ActiveConfig()

	var schools []models.SchoolAccount
	if err := s.DB.Where("is_admin = ?", false).
		Preload("Advisors", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Order("school_no ASC, name ASC").
		Find(&schools).Error; err != nil {
		return nil, fmt.Errorf("failed to load schools: %w", err)
	}

	var roster []models.Athlete
	if err := s.DB.Where("archived = ?", false).
		Order("school_id ASC, name ASC").
		Find(&roster).Error; err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	book, err := s.Entries.Load(cfg.Key)
	if err != nil {
		return nil, err
	}
	return &reportData{settings: settings, cfg: cfg, schools: schools, roster: roster, book: book}, nil
}

// --- workbook A: per-category entry details ---

type individualRow struct {
	schoolNo    int
	schoolName  string
	grade       int
	name        string
	kind        string
	seedRank    string
	regularRank string
	jkf         string
	sortRank    int
}

// BuildEntryDetails produces the bracket-seeding workbook: one sheet per
// sex×individual category sorted by rank, one sheet per sex×team category
// grouped by school.
func (s *ReportService) BuildEntryDetails(data *reportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	schoolByID := map[string]models.SchoolAccount{}
	for _, sc := range data.schools {
		schoolByID[sc.ID] = sc
	}

	individual := []struct {
		sheet string
		sex   string
		pick  func(models.EntryRecord) models.IndSelection
	}{
		{"男子個人形", models.SexMale, func(r models.EntryRecord) models.IndSelection { return r.IndKata }},
		{"女子個人形", models.SexFemale, func(r models.EntryRecord) models.IndSelection { return r.IndKata }},
		{"男子個人組手", models.SexMale, func(r models.EntryRecord) models.IndSelection { return r.IndKumite }},
		{"女子個人組手", models.SexFemale, func(r models.EntryRecord) models.IndSelection { return r.IndKumite }},
	}

	for _, cat := range individual {
		if _, err := f.NewSheet(cat.sheet); err != nil {
			return nil, err
		}
		header := []interface{}{"No", "学校名", "学年", "氏名", "種別", "シード順位", "一般順位", "JKF番号"}
		if err := f.SetSheetRow(cat.sheet, "A1", &header); err != nil {
			return nil, err
		}

		var rows []individualRow
		for _, a := range data.roster {
			if models.DecodeSex(a.Sex) != cat.sex {
				continue
			}
			sel := cat.pick(data.book.RecordFor(a.EntryKey()))
			if !sel.Checked {
				continue
			}
			sc := schoolByID[a.SchoolID]
			row := individualRow{
				schoolNo:   sc.SchoolNo,
				schoolName: sc.Name,
				grade:      a.Grade,
				name:       a.Name,
				kind:       displayValue(models.IndSelection{Checked: true, Value: sel.Value}),
				jkf:        a.ExternalID,
				sortRank:   9999,
			}
			if n, err := strconv.Atoi(sel.Rank); err == nil {
				row.sortRank = n
			}
			switch sel.Value.Kind {
			case models.PlacementSeed:
				row.seedRank = sel.Rank
			case models.PlacementRegular:
				row.regularRank = sel.Rank
			}
			rows = append(rows, row)
		}
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].sortRank != rows[j].sortRank {
				return rows[i].sortRank < rows[j].sortRank
			}
			return rows[i].schoolNo < rows[j].schoolNo
		})
		for i, r := range rows {
			values := []interface{}{r.schoolNo, r.schoolName, r.grade, r.name, r.kind, r.seedRank, r.regularRank, r.jkf}
			if err := f.SetSheetRow(cat.sheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
				return nil, err
			}
		}
	}

	team := []struct {
		sheet string
		sex   string
		pick  func(models.EntryRecord) models.TeamSelection
	}{
		{"男子団体形", models.SexMale, func(r models.EntryRecord) models.TeamSelection { return r.TeamKata }},
		{"女子団体形", models.SexFemale, func(r models.EntryRecord) models.TeamSelection { return r.TeamKata }},
		{"男子団体組手", models.SexMale, func(r models.EntryRecord) models.TeamSelection { return r.TeamKumite }},
		{"女子団体組手", models.SexFemale, func(r models.EntryRecord) models.TeamSelection { return r.TeamKumite }},
	}

	for _, cat := range team {
		if _, err := f.NewSheet(cat.sheet); err != nil {
			return nil, err
		}
		header := []interface{}{"No", "学校名", "人数", "メンバー"}
		if err := f.SetSheetRow(cat.sheet, "A1", &header); err != nil {
			return nil, err
		}

		row := 2
		for _, sc := range data.schools {
			var members []string
			for _, a := range data.roster {
				if a.SchoolID != sc.ID || models.DecodeSex(a.Sex) != cat.sex {
					continue
				}
				if cat.pick(data.book.RecordFor(a.EntryKey())).Checked {
					members = append(members, a.Name)
				}
			}
			if len(members) == 0 {
				continue
			}
			values := []interface{}{sc.SchoolNo, sc.Name, len(members), joinJa(members)}
			if err := f.SetSheetRow(cat.sheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return nil, err
			}
			row++
		}
	}

	f.DeleteSheet("Sheet1")
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinJa(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += "、"
		}
		out += n
	}
	return out
}

// --- workbook B: school summary ---

// BuildSchoolSummary produces one row per school in school-number order:
// team ○ flags, individual entry counts, and the number of distinct regular
// participants (an athlete in several regular categories counts once).
func (s *ReportService) BuildSchoolSummary(data *reportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "参加校集計"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}

	header := []interface{}{"No", "学校名", "男団形", "男個形", "男団組", "男個組", "女団形", "女個形", "女団組", "女個組", "正選手数"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	for _, sc := range data.schools {
		var mTKata, mTKumite, wTKata, wTKumite bool
		var mKata, mKumite, wKata, wKumite int
		distinctRegular := 0
		for _, a := range data.roster {
			if a.SchoolID != sc.ID {
				continue
			}
			rec := data.book.RecordFor(a.EntryKey())
			male := models.DecodeSex(a.Sex) == models.SexMale
			if rec.TeamKata.Checked {
				if male {
					mTKata = true
				} else {
					wTKata = true
				}
			}
			if rec.TeamKumite.Checked {
				if male {
					mTKumite = true
				} else {
					wTKumite = true
				}
			}
			if rec.IndKata.Checked {
				if male {
					mKata++
				} else {
					wKata++
				}
			}
			if rec.IndKumite.Checked {
				if male {
					mKumite++
				} else {
					wKumite++
				}
			}
			if isRegularParticipant(rec) {
				distinctRegular++
			}
		}
		values := []interface{}{
			sc.SchoolNo, sc.Name,
			flagGlyph(mTKata), countOrBlank(mKata), flagGlyph(mTKumite), countOrBlank(mKumite),
			flagGlyph(wTKata), countOrBlank(wKata), flagGlyph(wTKumite), countOrBlank(wKumite),
			distinctRegular,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, err
		}
		row++
	}

	f.DeleteSheet("Sheet1")
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// isRegularParticipant reports whether an athlete holds at least one regular
// (non-alternate) slot in any category.
func isRegularParticipant(rec models.EntryRecord) bool {
	if rec.TeamKata.Checked && models.DecodeTeamRole(string(rec.TeamKata.Role)) == models.TeamRoleRegular {
		return true
	}
	if rec.TeamKumite.Checked && models.DecodeTeamRole(string(rec.TeamKumite.Role)) == models.TeamRoleRegular {
		return true
	}
	if rec.IndKata.Checked && rec.IndKata.Value.IsRegularSlot() {
		return true
	}
	if rec.IndKumite.Checked && rec.IndKumite.Value.IsRegularSlot() {
		return true
	}
	return false
}

func flagGlyph(set bool) string {
	if set {
		return "○"
	}
	return ""
}

func countOrBlank(n int) interface{} {
	if n == 0 {
		return ""
	}
	return n
}

// --- workbook C: advisor attendance ---

// BuildAdvisorList produces the advisor attendance sheet in school-number
// order with judge/staff totals for the referee roster and catering count.
func (s *ReportService) BuildAdvisorList(data *reportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := "顧問出欠"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}

	header := []interface{}{"No", "学校名", "氏名", "役職", "役割", "1日目", "2日目"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	judges, staff := 0, 0
	for _, sc := range data.schools {
		for i, a := range sc.Advisors {
			position := "顧問"
			if i == 0 {
				position = "筆頭顧問"
			}
			role := models.DecodeAdvisorRole(a.Role)
			switch role {
			case models.AdvisorRoleJudge:
				judges++
			case models.AdvisorRoleStaff:
				staff++
			}
			values := []interface{}{sc.SchoolNo, sc.Name, a.Name, position, role, flagGlyph(a.Day1), flagGlyph(a.Day2)}
			if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return nil, err
			}
			row++
		}
	}

	totals := []interface{}{"", "合計", "", "", "", fmt.Sprintf("審判 %d名", judges), fmt.Sprintf("係員 %d名", staff)}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row+1), &totals); err != nil {
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- raw CSV dump ---

// BuildRawCSV flattens every entry joined with its roster row, in
// school-number order. UTF-8 BOM so the federation's Excel opens it cleanly.
func (s *ReportService) BuildRawCSV(data *reportData) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{
		"school_no", "school", "name", "sex", "grade", "dob", "jkf_no",
		"team_kata", "team_kumite", "ind_kata", "ind_kata_rank", "ind_kumite", "ind_kumite_rank",
	}); err != nil {
		return nil, err
	}

	for _, sc := range data.schools {
		for _, a := range data.roster {
			if a.SchoolID != sc.ID {
				continue
			}
			rec := data.book.RecordFor(a.EntryKey())
			err := w.Write([]string{
				strconv.Itoa(sc.SchoolNo), sc.Name, a.Name, models.DecodeSex(a.Sex),
				strconv.Itoa(a.Grade), a.DateOfBirth, a.ExternalID,
				displayTeam(rec.TeamKata), displayTeam(rec.TeamKumite),
				displayValue(rec.IndKata), rec.IndKata.Rank,
				displayValue(rec.IndKumite), rec.IndKumite.Rank,
			})
			if err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- duplicate seed detection ---

// DetectDuplicateSeeds flags identical seed ranks within one sex×category
// across all schools. Both (or all) athletes sharing a rank are named in one
// message so the offices can sort it out over the phone.
func DetectDuplicateSeeds(roster []models.Athlete, book *models.EntryBook) []string {
	categories := []struct {
		label string
		pick  func(models.EntryRecord) models.IndSelection
	}{
		{"個人形", func(r models.EntryRecord) models.IndSelection { return r.IndKata }},
		{"個人組手", func(r models.EntryRecord) models.IndSelection { return r.IndKumite }},
	}

	var msgs []string
	for _, sex := range []string{models.SexMale, models.SexFemale} {
		for _, cat := range categories {
			byRank := map[string][]string{}
			var ranks []string
			for _, a := range roster {
				if models.DecodeSex(a.Sex) != sex {
					continue
				}
				sel := cat.pick(book.RecordFor(a.EntryKey()))
				if !sel.Checked || sel.Value.Kind != models.PlacementSeed || sel.Rank == "" {
					continue
				}
				if len(byRank[sel.Rank]) == 0 {
					ranks = append(ranks, sel.Rank)
				}
				byRank[sel.Rank] = append(byRank[sel.Rank], a.Name)
			}
			sort.Strings(ranks)
			for _, rank := range ranks {
				names := byRank[rank]
				if len(names) > 1 {
					msgs = append(msgs, fmt.Sprintf(
						"%s%s シード順位%sが重複しています: %s", sex, cat.label, rank, joinJa(names)))
				}
			}
		}
	}
	return msgs
}

// --- download handlers ---

func (s *ReportService) sendFile(c *fiber.Ctx, name, contentType string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(data)
}

// DownloadEntryDetails handles GET /admin/reports/entry-details. Duplicate
// seed ranks block the workbook — brackets built on them are wrong.
func (s *ReportService) DownloadEntryDetails(c *fiber.Ctx) error {
	data, err := s.loadReportData()
	if err != nil {
		return storeError(c, err)
	}
	if dups := DetectDuplicateSeeds(data.roster, data.book); len(dups) > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"errors": dups})
	}
	b, err := s.BuildEntryDetails(data)
	if err != nil {
		log.Printf("[REPORT] entry details failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to build entry details"})
	}
	return s.sendFile(c, "entry_details.xlsx", xlsxContentType, b)
}

// DownloadSchoolSummary handles GET /admin/reports/school-summary.
func (s *ReportService) DownloadSchoolSummary(c *fiber.Ctx) error {
	data, err := s.loadReportData()
	if err != nil {
		return storeError(c, err)
	}
	b, err := s.BuildSchoolSummary(data)
	if err != nil {
		log.Printf("[REPORT] school summary failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to build school summary"})
	}
	return s.sendFile(c, "school_summary.xlsx", xlsxContentType, b)
}

// DownloadAdvisorList handles GET /admin/reports/advisors.
func (s *ReportService) DownloadAdvisorList(c *fiber.Ctx) error {
	data, err := s.loadReportData()
	if err != nil {
		return storeError(c, err)
	}
	b, err := s.BuildAdvisorList(data)
	if err != nil {
		log.Printf("[REPORT] advisor list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to build advisor list"})
	}
	return s.sendFile(c, "advisor_list.xlsx", xlsxContentType, b)
}

// DownloadRawCSV handles GET /admin/reports/raw.
func (s *ReportService) DownloadRawCSV(c *fiber.Ctx) error {
	data, err := s.loadReportData()
	if err != nil {
		return storeError(c, err)
	}
	b, err := s.BuildRawCSV(data)
	if err != nil {
		log.Printf("[REPORT] raw csv failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to build raw export"})
	}
	return s.sendFile(c, "raw_data.csv", "text/csv; charset=utf-8", b)
}

// storeError maps store failures to 503 and everything else to 500.
func storeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrStoreUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "document store unavailable, try again"})
	}
	log.Printf("[REPORT] load failed: %v", err)
	return c.Status(500).JSON(fiber.Map{"error": "failed to load report data"})
}
