package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hatchery/models"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the dataset workbook
const (
	SheetMainDataset = "Main_Dataset"
	SheetThresholds  = "Parameter_Thresholds"
	SheetSpecies     = "Species_Information"
)

// WriteWorkbook saves the dataset as a three-sheet xlsx file at path
func WriteWorkbook(path string, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	mainRows := make([][]interface{}, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		mainRows = append(mainRows, row.Values())
	}
	thresholdRows := make([][]interface{}, 0, len(ds.Thresholds))
	for _, t := range ds.Thresholds {
		thresholdRows = append(thresholdRows, t.Values())
	}
	speciesRows := make([][]interface{}, 0, len(ds.Species))
	for _, s := range ds.Species {
		speciesRows = append(speciesRows, s.Values())
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]interface{}
		width   float64
	}{
		{SheetMainDataset, models.MainDatasetColumns, mainRows, 20},
		{SheetThresholds, models.ThresholdDescriptionColumns, thresholdRows, 40},
		{SheetSpecies, models.SpeciesInfoColumns, speciesRows, 30},
	}

	// The default Sheet1 becomes the main dataset so it stays the active sheet
	if err := f.SetSheetName("Sheet1", SheetMainDataset); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for i, s := range sheets {
		if i > 0 {
			if _, err := f.NewSheet(s.name); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
			}
		}
		if err := writeSheet(f, s.name, s.headers, s.rows, headerStyle, s.width); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle int, width float64) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to set %s header style: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, width); err != nil {
		return fmt.Errorf("failed to set %s column width: %w", sheet, err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}

	// freeze the header row
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze %s panes: %w", sheet, err)
	}
	return nil
}

// Table is a header row plus text cells, as consumers read the main sheet
type Table struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of a column, or -1
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Cell returns a cell by row and column name; missing cells are empty
func (t *Table) Cell(row int, column string) string {
	idx := t.Index(column)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// ReadMainTable loads the Main_Dataset sheet of a workbook
func ReadMainTable(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetMainDataset, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", SheetMainDataset)
	}

	return &Table{
		Columns: rows[0],
		Rows:    rows[1:],
	}, nil
}

// TableFromRows renders dataset rows as a text table with the main columns
func TableFromRows(rows []models.DatasetRow) *Table {
	t := &Table{
		Columns: append([]string(nil), models.MainDatasetColumns...),
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, row.Strings())
	}
	return t
}

// ParseDatasetRows converts a main table back into dataset rows. Every main
// column must be present.
func ParseDatasetRows(t *Table) ([]models.DatasetRow, error) {
	for _, col := range models.MainDatasetColumns {
		if t.Index(col) < 0 {
			return nil, fmt.Errorf("missing column %s", col)
		}
	}

	out := make([]models.DatasetRow, 0, len(t.Rows))
	for i := range t.Rows {
		p := rowParser{table: t, row: i}

		row := models.DatasetRow{
			EntryID:   p.int(models.ColEntryID),
			Timestamp: p.time(models.ColTimestamp),
			TankID:    p.int(models.ColTankID),
			Species:   t.Cell(i, models.ColCarpSpecies),
			Reading: models.SensorReading{
				Temperature:      p.float(models.ColTemperature),
				DissolvedOxygen:  p.float(models.ColDissolvedOxygen),
				PH:               p.float(models.ColPH),
				Ammonia:          p.float(models.ColAmmonia),
				Nitrate:          p.float(models.ColNitrate),
				Turbidity:        p.float(models.ColTurbidity),
				Alkalinity:       p.float(models.ColAlkalinity),
				Hardness:         p.float(models.ColHardness),
				SoilMoisture:     p.float(models.ColSoilMoisture),
				WaterFlow:        p.float(models.ColWaterFlow),
				FeedingFrequency: p.int(models.ColFeedingFrequency),
			},
			Labels: models.DerivedLabels{
				TankLeakage:       p.int(models.ColTankLeakage),
				TemperatureStatus: models.Status(t.Cell(i, models.ColTemperatureStatus)),
				WaterQualityIndex: models.Grade(t.Cell(i, models.ColWaterQualityIndex)),
				DOStatus:          models.Status(t.Cell(i, models.ColDOStatus)),
				GrowthCondition:   models.Grade(t.Cell(i, models.ColGrowthCondition)),
			},
		}
		if p.err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, p.err)
		}
		out = append(out, row)
	}
	return out, nil
}

// rowParser keeps the first conversion error of a row
type rowParser struct {
	table *Table
	row   int
	err   error
}

func (p *rowParser) cell(col string) string {
	return strings.TrimSpace(p.table.Cell(p.row, col))
}

func (p *rowParser) float(col string) float64 {
	v, err := strconv.ParseFloat(p.cell(col), 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %s: %w", col, err)
	}
	return v
}

func (p *rowParser) int(col string) int {
	v, err := strconv.Atoi(p.cell(col))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %s: %w", col, err)
	}
	return v
}

func (p *rowParser) time(col string) time.Time {
	v, err := time.ParseInLocation(models.TimestampLayout, p.cell(col), time.UTC)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %s: %w", col, err)
	}
	return v
}
