package container

import (
	"fmt"
	"io"

	"masscal/adapters/excel"
	"masscal/app"
	"masscal/internal"
	"masscal/internal/api"
	"masscal/internal/config"
	"masscal/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Calibrator *app.CalibrationService
	Handler    *api.CalibrationHandler
	Server     *api.Server
}

// New creates a new dependency injection container. Log output goes to w.
func New(cfg *config.Config, w io.Writer) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLoggerTo(w, cfg.Logging.Level),
	}

	c.Calibrator = app.NewCalibrationService(c.Logger, cfg.Batch.Concurrency)
	c.Handler = api.NewCalibrationHandler(c.Calibrator, cfg.Calibration, c.Logger)
	c.Server = api.NewServer(cfg.Server, c.Handler, c.Logger)

	c.Logger.WithFields(map[string]interface{}{
		"port":              cfg.Server.Port,
		"batch_concurrency": cfg.Batch.Concurrency,
		"reading_unit":      string(cfg.Calibration.Unit),
	}).Debug("container initialized")
	return c, nil
}

// ReadingsSource opens a readings spreadsheet using the configured sheet
// unless sheet overrides it.
func (c *Container) ReadingsSource(path, sheet string) ports.ReadingsSource {
	readingsCfg := excel.DefaultReadingsConfig()
	readingsCfg.FilePath = path
	readingsCfg.Sheet = c.Config.Readings.Sheet
	if sheet != "" {
		readingsCfg.Sheet = sheet
	}
	return excel.NewDataReader(readingsCfg, c.Logger)
}
