package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"masscal/domain/calibration"
	"masscal/internal"
	"masscal/internal/errors"
	"masscal/models"
	"masscal/ports"
)

// maxBatchItems caps a single batch request
const maxBatchItems = 500

// CalibrationHandler serves calibration requests
type CalibrationHandler struct {
	calibrator ports.CalibratorPort
	defaults   calibration.InputDefaults
	logger     *internal.Logger
}

// NewCalibrationHandler creates a new calibration handler
func NewCalibrationHandler(calibrator ports.CalibratorPort, defaults calibration.InputDefaults, logger *internal.Logger) *CalibrationHandler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CalibrationHandler{
		calibrator: calibrator,
		defaults:   defaults,
		logger:     logger,
	}
}

// HandleCalibrate computes one uncertainty budget
func (h *CalibrationHandler) HandleCalibrate(c *gin.Context) {
	var req models.CalibrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	record, err := h.calibrator.Calibrate(c.Request.Context(), req.ToInput(h.defaults))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(record))
}

// HandleCalibrateBatch computes several budgets; item failures are reported
// in place and do not fail the request.
func (h *CalibrationHandler) HandleCalibrateBatch(c *gin.Context) {
	var req models.BatchCalibrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	if len(req.Items) == 0 {
		h.respondError(c, errors.InvalidInput("batch must contain at least one item"))
		return
	}
	if len(req.Items) > maxBatchItems {
		h.respondError(c, errors.InvalidInput("batch exceeds the maximum number of items"))
		return
	}

	inputs := make([]calibration.CalibrationInput, len(req.Items))
	for i, item := range req.Items {
		inputs[i] = item.ToInput(h.defaults)
	}

	outcomes, err := h.calibrator.CalibrateBatch(c.Request.Context(), inputs)
	if err != nil {
		h.respondError(c, errors.Wrap(err, "batch interrupted"))
		return
	}

	resp := models.BatchCalibrationResponse{Items: make([]models.BatchItemResponse, 0, len(outcomes))}
	for _, outcome := range outcomes {
		item := models.BatchItemResponse{Index: outcome.Index}
		if outcome.Err != nil {
			_, body := errorBody(outcome.Err)
			item.Error = &body
			resp.Errors++
		} else {
			result := toResponse(outcome.Record)
			item.Result = &result
			if outcome.Record.Result.Passed() {
				resp.Passed++
			} else {
				resp.Failed++
			}
		}
		resp.Items = append(resp.Items, item)
	}

	c.JSON(http.StatusOK, resp)
}

// HandleHealth reports liveness
func (h *CalibrationHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *CalibrationHandler) respondError(c *gin.Context, err error) {
	status, body := errorBody(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, body)
}

// errorBody maps an error to its HTTP status and wire form. Validation
// messages are returned verbatim; anything else gets an opaque message.
func errorBody(err error) (int, models.ErrorResponse) {
	code := errors.GetCode(err)
	switch code {
	case errors.CodeValidationError:
		return http.StatusUnprocessableEntity, models.ErrorResponse{Code: code, Message: err.Error()}
	case errors.CodeInvalidInput:
		return http.StatusBadRequest, models.ErrorResponse{Code: code, Message: err.Error()}
	case errors.CodeComputationError:
		return http.StatusInternalServerError, models.ErrorResponse{Code: code, Message: "calibration computation failed"}
	default:
		return http.StatusInternalServerError, models.ErrorResponse{Code: errors.CodeInternalError, Message: "internal error"}
	}
}

func toResponse(record *ports.CalibrationRecord) models.CalibrationResponse {
	return models.NewCalibrationResponse(
		record.ID.String(),
		record.InputHash.String(),
		record.CreatedAt.Time(),
		record.Result,
	)
}
