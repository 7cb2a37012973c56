package excel

// RawRowData represents a row of raw spreadsheet data keyed by normalized header
type RawRowData map[string]string

// ExcelData represents the raw sheet before numeric conversion
type ExcelData struct {
	Headers []string     // Column headers, trimmed
	Rows    []RawRowData // Data rows
}
