package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"masscal/internal"
	"masscal/internal/errors"
	"masscal/ports"
)

// header aliases accepted for each reading column
var (
	standardHeaders = []string{"standard", "std", "s", "reference"}
	testHeaders     = []string{"test", "uut", "t"}
)

// DataReader reads paired readings from Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

// NewDataReader creates a reader; the file type follows the extension
func NewDataReader(config ReadingsConfig, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	sheet := config.Sheet
	if sheet == "" {
		sheet = DefaultReadingsConfig().Sheet
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{filePath: config.FilePath, fileType: fileType, sheet: sheet, logger: logger}
}

var _ ports.ReadingsSource = (*DataReader)(nil)

// LoadReadings reads the sheet and converts the standard/test columns
func (r *DataReader) LoadReadings(ctx context.Context) (*ports.PairedReadings, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return r.pairReadings(data)
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("[DataReader] reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

// readExcelData reads the configured sheet
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read sheet %q: %w", r.sheet, err))
	}
	r.logger.Debug("[DataReader] sheet %s read in %.2fms (%d rows)", r.sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file: %w", err))
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidInput("readings file must have a header row and at least one data row")
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	seen := make(map[string]int, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
		if headers[i] == "" {
			continue
		}
		if first, dup := seen[headers[i]]; dup {
			return nil, errors.InvalidInput(fmt.Sprintf("duplicate column %q (columns %d and %d)", headers[i], first+1, i+1))
		}
		seen[headers[i]] = i
	}

	var dataRows []RawRowData
	for i := 1; i < len(rows); i++ {
		rowData := make(RawRowData)
		for j, cell := range rows[i] {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &ExcelData{Headers: headers, Rows: dataRows}, nil
}

// pairReadings extracts the standard and test columns. Rows where both cells
// are blank are skipped; a half-filled row is an error.
func (r *DataReader) pairReadings(data *ExcelData) (*ports.PairedReadings, error) {
	stdCol, ok := findColumn(data.Headers, standardHeaders)
	if !ok {
		return nil, errors.InvalidInput("readings file has no standard column (want one of: " + strings.Join(standardHeaders, ", ") + ")")
	}
	testCol, ok := findColumn(data.Headers, testHeaders)
	if !ok {
		return nil, errors.InvalidInput("readings file has no test column (want one of: " + strings.Join(testHeaders, ", ") + ")")
	}

	readings := &ports.PairedReadings{}
	for i, row := range data.Rows {
		line := i + 2 // 1-based, after the header
		s, t := row[stdCol], row[testCol]
		if s == "" && t == "" {
			continue
		}
		if s == "" || t == "" {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: both standard and test readings are required", line))
		}

		sv, err := parseReading(s)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d column %s: %q is not a number", line, stdCol, s))
		}
		tv, err := parseReading(t)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d column %s: %q is not a number", line, testCol, t))
		}
		readings.Standard = append(readings.Standard, sv)
		readings.Test = append(readings.Test, tv)
	}

	r.logger.Debug("[DataReader] %d paired readings loaded from %s", len(readings.Test), r.filePath)
	return readings, nil
}

func findColumn(headers []string, aliases []string) (string, bool) {
	for _, alias := range aliases {
		for _, h := range headers {
			if h == alias {
				return h, true
			}
		}
	}
	return "", false
}

func parseReading(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
