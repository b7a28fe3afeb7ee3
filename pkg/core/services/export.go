package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/internal/config"
	"github.com/ashwinpillai/duty-roster/pkg/core/roster"
	"github.com/ashwinpillai/duty-roster/pkg/db"
	"github.com/ashwinpillai/duty-roster/pkg/grid"
)

// ExportStore is the persistence surface the export service needs.
type ExportStore interface {
	GetDutiesByDepartment(ctx context.Context, department string) ([]db.Duty, error)
	GetDoctorsByDepartment(ctx context.Context, department string) ([]db.Doctor, error)
	GetScheduleByWindow(ctx context.Context, start, end, department string) ([]db.ScheduleEntry, error)
}

// ExportResult reports the written workbook.
type ExportResult struct {
	WindowStart string
	WindowEnd   string
	Path        string
	Entries     int
}

// ExportSchedule writes the window's schedule grid to an xlsx workbook,
// one row per day and one column per duty.
func ExportSchedule(
	ctx context.Context,
	store ExportStore,
	cfg *config.Config,
	logger *zap.Logger,
	anchorDate, department, outPath string,
) (*ExportResult, error) {
	if department == "" {
		return nil, fmt.Errorf("department is required")
	}

	anchor, err := parseDate(anchorDate)
	if err != nil {
		return nil, err
	}

	calendar := calendarFromConfig(cfg)
	start := calendar.WindowStart(anchor)
	days := calendar.Days(start)
	startKey := roster.DateKey(start)
	endKey := roster.DateKey(days[len(days)-1])

	entries, err := store.GetScheduleByWindow(ctx, startKey, endKey, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no schedule for window %s to %s", startKey, endKey)
	}

	duties, err := store.GetDutiesByDepartment(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get duties: %w", err)
	}

	doctors, err := store.GetDoctorsByDepartment(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctors: %w", err)
	}

	g := grid.Build(entries, duties, doctors, days)

	if err := writeWorkbook(g, department, outPath); err != nil {
		return nil, err
	}

	logger.Info("Schedule exported",
		zap.String("path", outPath),
		zap.Int("entries", len(entries)))

	return &ExportResult{
		WindowStart: startKey,
		WindowEnd:   endKey,
		Path:        outPath,
		Entries:     len(entries),
	}, nil
}

func writeWorkbook(g *grid.Grid, department, outPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Schedule"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	f.SetColWidth(sheet, "A", "A", 16)
	lastCol, _ := excelize.ColumnNumberToName(1 + len(g.Duties))
	if len(g.Duties) > 0 {
		f.SetColWidth(sheet, "B", lastCol, 28)
	}

	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s: %s to %s",
		department, g.Start.Format("Jan 2"), g.End.Format("Jan 2 2006")))
	for i, duty := range g.Duties {
		cellName, _ := excelize.CoordinatesToCellName(2+i, 1)
		f.SetCellValue(sheet, cellName, duty.Name)
	}
	f.SetCellStyle(sheet, "A1", fmt.Sprintf("%s1", lastCol), headerStyle)

	for r, day := range g.Days {
		dayCell, _ := excelize.CoordinatesToCellName(1, 2+r)
		f.SetCellValue(sheet, dayCell, day.Format("Mon Jan 2"))
		for c, duty := range g.Duties {
			cellName, _ := excelize.CoordinatesToCellName(2+c, 2+r)
			f.SetCellValue(sheet, cellName, formatCells(g.Cells(day, duty.ID)))
		}
	}

	// Keep the header row and date column visible while scrolling.
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
