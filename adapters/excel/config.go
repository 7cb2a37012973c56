package excel

// ReadingsConfig holds configuration for a readings spreadsheet
type ReadingsConfig struct {
	FilePath string
	Sheet    string // xlsx only
}

// DefaultReadingsConfig returns sensible defaults for readings import
func DefaultReadingsConfig() ReadingsConfig {
	return ReadingsConfig{
		Sheet: "Sheet1",
	}
}
