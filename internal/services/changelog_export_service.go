package services

import (
	"bytes"
	"fmt"

	"github.com/ratemygit/ratemygit/internal/models"
	"github.com/xuri/excelize/v2"
)

const changelogSheet = "Changelog"

var changelogHeaders = []string{"Title", "Date", "Link", "Summary"}

type ChangelogExportService struct{}

func NewChangelogExportService() *ChangelogExportService {
	return &ChangelogExportService{}
}

// ExportXLSX writes changelog entries to a single-sheet workbook
func (s *ChangelogExportService) ExportXLSX(repoFullName string, entries []models.ChangelogEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", changelogSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   repoFullName + " changelog",
		Creator: "RateMyGit",
	}); err != nil {
		return nil, fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := f.SetSheetRow(changelogSheet, "A1", &changelogHeaders); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(changelogSheet, "A1", "D1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{entry.Title, entry.Date, entry.RepoLink, entry.Summary}
		if err := f.SetSheetRow(changelogSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(changelogSheet, "A", "A", 60); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(changelogSheet, "B", "C", 24); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}
