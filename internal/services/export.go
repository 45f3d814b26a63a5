package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/models"
	"github.com/abrezinsky/liftmeet/internal/scoring"
)

// XLSXContentType is the MIME type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export is a generated workbook ready to send
type Export struct {
	Filename string
	Data     []byte
}

// ExportService builds spreadsheet exports of contest results
type ExportService struct {
	log      logger.Logger
	contests ContestServicer
	results  ResultsServicer
}

// NewExportService creates a new ExportService
func NewExportService(log logger.Logger, contests ContestServicer, results ResultsServicer) *ExportService {
	return &ExportService{log: log, contests: contests, results: results}
}

var resultHeaders = []interface{}{
	"Place", "Name", "Club", "Gender", "Category", "Class", "Bodyweight",
	"Squat", "Bench", "Deadlift", "Total", "Points", "Cat. Place", "Class Place", "DQ Reason",
}

var teamHeaders = []interface{}{"Rank", "Club", "Points", "Overall Points", "Contributors"}

// ExportResults writes a workbook with the individual results sheet followed
// by one sheet per team scoreboard
func (s *ExportService) ExportResults(ctx context.Context, contestID string) (*Export, error) {
	contest, err := s.contests.GetContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	rows, err := s.results.GetResults(ctx, contestID)
	if err != nil {
		return nil, err
	}
	teams, err := s.results.GetTeamResults(ctx, contestID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Results"); err != nil {
		return nil, err
	}
	if err := writeResultsSheet(f, "Results", rows); err != nil {
		return nil, err
	}

	for _, metric := range scoring.TeamMetrics {
		name := "Teams " + teamSheetTitle(metric)
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		if err := writeTeamSheet(f, name, teams.Board(metric)); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	s.log.Info("Results exported", "contest_id", contestID, "rows", len(rows), "bytes", buf.Len())

	return &Export{Filename: exportFilename(contest), Data: buf.Bytes()}, nil
}

func writeResultsSheet(f *excelize.File, sheet string, rows []models.ResultRow) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", resultHeaders); err != nil {
		return err
	}
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			placeCell(r.PlaceOpen),
			sanitizeForExcel(r.Name()),
			sanitizeForExcel(r.Club),
			r.Gender,
			sanitizeForExcel(r.AgeCategoryCode),
			sanitizeForExcel(r.WeightClassCode),
			r.BodyweightKg,
			r.BestSquat,
			r.BestBench,
			r.BestDeadlift,
			r.TotalWeight,
			r.CoefficientPoints,
			placeCell(r.PlaceInAgeClass),
			placeCell(r.PlaceInWeightClass),
			r.DisqualificationReason,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func writeTeamSheet(f *excelize.File, sheet string, board []scoring.TeamResultRow) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", teamHeaders); err != nil {
		return err
	}
	for i, t := range board {
		var names []string
		for _, c := range t.Contributors {
			if !c.IsPlaceholder {
				names = append(names, c.Name)
			}
		}
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{t.Rank, sanitizeForExcel(t.Club), t.TotalPoints, t.OverallPoints, sanitizeForExcel(strings.Join(names, ", "))}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func placeCell(p *int) interface{} {
	if p == nil {
		return ""
	}
	return *p
}

func teamSheetTitle(metric scoring.TeamMetric) string {
	s := string(metric)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func exportFilename(c *models.Contest) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		case r == ' ' || r == '_':
			return '_'
		}
		return -1
	}, c.Name)
	if name == "" {
		name = "contest"
	}
	return fmt.Sprintf("%s_%s_results.xlsx", name, c.ContestDate)
}

// sanitizeForExcel escapes values that a spreadsheet would read as a formula
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
