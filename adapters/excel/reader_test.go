package excel

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"masscal/internal"
	"masscal/internal/errors"
)

func quietLogger() *internal.Logger {
	return internal.NewLoggerTo(io.Discard, internal.LogLevelError)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "readings.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadReadings_CSV(t *testing.T) {
	path := writeCSV(t, "Standard,Test\n0.1,0.6\n0.2,0.8\n,\n0.1,0.7\n")

	reader := NewDataReader(ReadingsConfig{FilePath: path}, quietLogger())
	readings, err := reader.LoadReadings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.1}, readings.Standard)
	assert.Equal(t, []float64{0.6, 0.8, 0.7}, readings.Test)
}

func TestLoadReadings_CSVAliases(t *testing.T) {
	path := writeCSV(t, "run,S,T\n1,10,11\n2,10.5,11.25\n")

	readings, err := NewDataReader(ReadingsConfig{FilePath: path}, quietLogger()).LoadReadings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10.5}, readings.Standard)
	assert.Equal(t, []float64{11, 11.25}, readings.Test)
}

func TestLoadReadings_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"header only", "standard,test\n", "header row"},
		{"missing test column", "standard,other\n1,2\n", "no test column"},
		{"half filled row", "standard,test\n1,2\n3,\n", "row 3"},
		{"non numeric", "standard,test\n1,2\n3,abc\n", `row 3 column test: "abc" is not a number`},
		{"locale decimal", "standard,test\n\"1,5\",2\n", "is not a number"},
		{"duplicate column", "standard,test, Test \n1,2,3\n", `duplicate column "test" (columns 2 and 3)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCSV(t, tt.content)
			_, err := NewDataReader(ReadingsConfig{FilePath: path}, quietLogger()).LoadReadings(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		})
	}
}

func TestLoadReadings_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.xlsx")
	_, err := NewDataReader(ReadingsConfig{FilePath: path}, quietLogger()).LoadReadings(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestLoadReadings_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.xlsx")

	f := excelize.NewFile()
	_, err := f.NewSheet("Readings")
	require.NoError(t, err)
	rows := [][]interface{}{
		{"Standard", "Test"},
		{0.1, 0.6},
		{0.2, 0.8},
		{0.1, 0.7},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Readings", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	reader := NewDataReader(ReadingsConfig{FilePath: path, Sheet: "Readings"}, quietLogger())
	readings, err := reader.LoadReadings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.1}, readings.Standard)
	assert.Equal(t, []float64{0.6, 0.8, 0.7}, readings.Test)

	// default sheet does not exist in this workbook's data
	_, err = NewDataReader(ReadingsConfig{FilePath: path, Sheet: "Missing"}, quietLogger()).LoadReadings(context.Background())
	assert.Error(t, err)
}

func TestLoadReadings_CanceledContext(t *testing.T) {
	path := writeCSV(t, "standard,test\n1,2\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDataReader(ReadingsConfig{FilePath: path}, quietLogger()).LoadReadings(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
