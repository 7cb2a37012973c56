// Package inputfile decodes calibration submissions stored as YAML or JSON.
package inputfile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"masscal/domain/calibration"
	"masscal/internal/errors"
	"masscal/models"
)

// Decode reads one submission. JSON documents are accepted since they are
// valid YAML. Unknown fields are rejected so typos in field names surface.
func Decode(r io.Reader) (*models.CalibrationRequest, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read calibration input")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.InvalidInput("calibration input is empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var req models.CalibrationRequest
	if err := dec.Decode(&req); err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to decode calibration input: %w", err))
	}
	return &req, nil
}

// Load reads the file at path and applies defaults for omitted fields.
func Load(path string, defaults calibration.InputDefaults) (calibration.CalibrationInput, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return calibration.CalibrationInput{}, errors.NotFound("input file " + path)
		}
		return calibration.CalibrationInput{}, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	req, err := Decode(f)
	if err != nil {
		return calibration.CalibrationInput{}, errors.Wrapf(err, "%s", path)
	}
	return req.ToInput(defaults), nil
}
