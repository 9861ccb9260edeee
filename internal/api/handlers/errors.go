package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"uptime-optimizer/internal/api/models"
	"uptime-optimizer/internal/data"
	"uptime-optimizer/internal/model"

	"github.com/gin-gonic/gin"
)

// errorDetail maps a domain error to an HTTP status and response body.
func errorDetail(err error) (int, models.ErrorDetail) {
	var (
		ipe *model.InvalidParameterError
		ide *model.InsufficientDataError
		cie *model.ComputationInvariantError
		dep *model.ExternalDependencyError
	)
	switch {
	case errors.As(err, &ipe):
		return http.StatusBadRequest, models.ErrorDetail{
			Code:    "INVALID_PARAMETER",
			Message: ipe.Error(),
			Details: map[string]interface{}{
				"param":  ipe.Param,
				"value":  fmt.Sprint(ipe.Value),
				"reason": ipe.Reason,
			},
		}
	case errors.As(err, &ide):
		return http.StatusUnprocessableEntity, models.ErrorDetail{
			Code:    "INSUFFICIENT_DATA",
			Message: ide.Error(),
			Details: map[string]interface{}{"points": ide.Points},
		}
	case errors.As(err, &cie):
		return http.StatusUnprocessableEntity, models.ErrorDetail{
			Code:    "COMPUTATION_INVARIANT",
			Message: cie.Error(),
			Details: map[string]interface{}{
				"target_uptime_percent": cie.TargetUptimePercent,
				"series_length":         cie.SeriesLength,
				"shutdown_hours":        cie.ShutdownHours,
				"shutdown_savings":      cie.ShutdownSavings,
				"original_average":      cie.OriginalAverage,
				"optimized_average":     cie.OptimizedAverage,
				"top_shutdown_prices":   cie.TopShutdownPrices,
				"bottom_running_prices": cie.BottomRunningPrices,
			},
		}
	case errors.As(err, &dep):
		var gsErr *data.GridStatusError
		if errors.As(err, &gsErr) {
			statusCode := http.StatusBadGateway
			switch gsErr.StatusCode {
			case http.StatusForbidden, http.StatusUnauthorized:
				statusCode = http.StatusUnauthorized
			case http.StatusTooManyRequests:
				statusCode = http.StatusTooManyRequests
			case 0:
				// rejected before any request was made
				statusCode = http.StatusBadRequest
			}
			return statusCode, models.ErrorDetail{
				Code:    gsErr.Code,
				Message: gsErr.Message,
				Details: map[string]interface{}{
					"status_code": gsErr.StatusCode,
					"retry_after": gsErr.RetryAfter,
				},
			}
		}
		return http.StatusBadGateway, models.ErrorDetail{
			Code:    "EXTERNAL_DEPENDENCY",
			Message: dep.Error(),
			Details: map[string]interface{}{"service": dep.Service},
		}
	default:
		return http.StatusInternalServerError, models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: err.Error(),
		}
	}
}

func writeError(c *gin.Context, err error) {
	status, detail := errorDetail(err)
	c.JSON(status, models.ErrorResponse{Error: detail})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// bindError reports a request body that failed to bind. A number field sent
// as another JSON type is an invalid parameter with reason not_a_number.
func bindError(c *gin.Context, err error) {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" && isNumber(ute.Type) {
		writeError(c, &model.InvalidParameterError{
			Param:  ute.Field,
			Value:  ute.Value,
			Reason: model.ReasonNotANumber,
		})
		return
	}
	badRequest(c, "INVALID_REQUEST", err.Error())
}

func isNumber(t reflect.Type) bool {
	if t == nil {
		return false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}
