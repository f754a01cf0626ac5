// Package export writes ranking results as spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/types"
)

// Sheet names in the ranking workbook.
const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Ranked Candidates"
)

// CandidateHeaders are the columns of the ranked candidates sheet.
var CandidateHeaders = []string{
	"Rank", "Candidate", "Email", "Score", "Tier",
	"Skills Match", "Experience", "Education", "Overall Fit", "Status",
}

var tierFill = map[types.Tier]string{
	types.TierStrong:   "C6EFCE",
	types.TierModerate: "FFEB9C",
	types.TierWeak:     "FFC7CE",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// WriteRankingWorkbook writes an xlsx workbook for a job's candidates to w.
// Candidates are written in the order given.
func WriteRankingWorkbook(w io.Writer, job *types.Job, candidates []types.Candidate, summary ranking.Summary, generated time.Time) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeSummarySheet(f, job, summary, generated); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeCandidatesSheet(f, candidates); err != nil {
		return fmt.Errorf("failed to create ranked candidates sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, job *types.Job, summary ranking.Summary, generated time.Time) error {
	const sheet = SummarySheet
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 50); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := [][2]any{
		{"Ranking Report", nil},
		{"Job Title:", job.Title},
		{"Department:", job.Department},
		{"Required Skills:", strings.Join(job.Requirements.RequiredSkills, ", ")},
		{"Generated:", generated.UTC().Format(time.RFC3339)},
		{nil, nil},
		{"Statistics", nil},
		{"Scored Candidates:", summary.TotalCandidates},
		{"Average Score:", summary.AverageScore},
		{types.TierStrong.Label() + ":", summary.TierDistribution[types.TierStrong]},
		{types.TierModerate.Label() + ":", summary.TierDistribution[types.TierModerate]},
		{types.TierWeak.Label() + ":", summary.TierDistribution[types.TierWeak]},
	}
	for i, r := range rows {
		row := i + 1
		a, b := fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row)
		if r[0] == nil {
			continue
		}
		if err := f.SetCellValue(sheet, a, r[0]); err != nil {
			return err
		}
		style := labelStyle
		if r[1] == nil {
			style = headerStyle
		} else if err := f.SetCellValue(sheet, b, r[1]); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, a, a, style); err != nil {
			return err
		}
	}
	return nil
}

func writeCandidatesSheet(f *excelize.File, candidates []types.Candidate) error {
	const sheet = CandidatesSheet
	widths := []float64{8, 25, 30, 10, 16, 14, 14, 14, 14, 20}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}
	tierStyles := make(map[types.Tier]int, len(tierFill))
	for tier, color := range tierFill {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
		tierStyles[tier] = style
	}

	for col, header := range CandidateHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i := range candidates {
		c := &candidates[i]
		row := i + 2
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), candidateRow(i+1, c)); err != nil {
			return err
		}
		if c.Tier == nil {
			continue
		}
		if style, ok := tierStyles[*c.Tier]; ok {
			last, _ := excelize.ColumnNumberToName(len(CandidateHeaders))
			if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), style); err != nil {
				return err
			}
		}
	}

	if len(candidates) > 0 {
		return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	}
	return nil
}

func candidateRow(rank int, c *types.Candidate) *[]any {
	row := []any{rank, c.Name, c.Email, "", "unscored", "", "", "", "", string(c.Status)}
	if c.RankingScore != nil {
		row[3] = ranking.Round2(*c.RankingScore)
	}
	if c.Tier != nil {
		row[4] = c.Tier.Label()
	}
	if d := c.RankingDetails; d != nil {
		row[5] = ranking.Round2(d.SkillsMatch)
		row[6] = ranking.Round2(d.ExperienceRelevance)
		row[7] = ranking.Round2(d.EducationMatch)
		row[8] = ranking.Round2(d.OverallFit)
	}
	return &row
}
