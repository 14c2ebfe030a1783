package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	portssvc "github.com/tithr-app/tithr_backend/internal/core/ports/services"
	"github.com/tithr-app/tithr_backend/internal/dto"
	"github.com/tithr-app/tithr_backend/internal/middleware"
)

// ReportHandler handles HTTP requests that email offering reports.
type ReportHandler struct {
	dispatchService portssvc.ReportDispatchSvcFacade
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(dispatchService portssvc.ReportDispatchSvcFacade) *ReportHandler {
	return &ReportHandler{dispatchService: dispatchService}
}

// SendReport godoc
// @Summary Email the report for a collection
// @Description Renders the PDF and HTML summary for the given collection data and emails them to the configured recipient
// @Tags reports
// @Accept json
// @Produce json
// @Param   report body dto.SendReportRequest true "Collection data to report"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Report rendering failed"
// @Failure 502 {object} map[string]string "Email delivery failed"
// @Router /reports/send [post]
func (h *ReportHandler) SendReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SendReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for send report request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	collection, donations, err := req.ToDomain()
	if err != nil {
		logger.Warn("Send report request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.dispatchService.Dispatch(c.Request.Context(), collection, donations, req.DepositURL)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Send report request rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case apperrors.StepOf(err) == apperrors.StepNotify:
			logger.Error("Report email delivery failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send report email"})
		default:
			logger.Error("Report rendering failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report"})
		}
		return
	}

	logger.Info("Report email dispatched", slog.String("date", collection.Date.String()))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
