package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
	portssvc "github.com/tithr-app/tithr_backend/internal/core/ports/services"
	"github.com/tithr-app/tithr_backend/internal/dto"
	"github.com/tithr-app/tithr_backend/internal/media"
	"github.com/tithr-app/tithr_backend/internal/middleware"
)

// CollectionHandler handles HTTP requests for collection submission, detail
// reads, and date-range export.
type CollectionHandler struct {
	submissionService portssvc.SubmissionSvcFacade
	collectionService portssvc.CollectionReaderSvcFacade
	exportService     portssvc.ExportSvcFacade
	preprocessor      *media.Preprocessor
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(
	submissionService portssvc.SubmissionSvcFacade,
	collectionService portssvc.CollectionReaderSvcFacade,
	exportService portssvc.ExportSvcFacade,
	preprocessor *media.Preprocessor,
) *CollectionHandler {
	return &CollectionHandler{
		submissionService: submissionService,
		collectionService: collectionService,
		exportService:     exportService,
		preprocessor:      preprocessor,
	}
}

// CreateCollection godoc
// @Summary Submit a weekly collection
// @Description Records a collection with its donations and deposit slip photo, then returns the rendered PDF report
// @Tags collections
// @Accept mpfd
// @Produce application/pdf
// @Param   date formData string true "Collection date (YYYY-MM-DD)"
// @Param   service_type formData string true "Service type"
// @Param   recorded_by formData string true "Recorder name"
// @Param   counted_by formData string true "Counter name"
// @Param   donations formData string true "JSON array of donation entries"
// @Param   capture formData string false "Slip capture mode: camera or file" default(file)
// @Param   deposit_slip formData file true "Deposit slip image"
// @Success 200 {file} binary "Rendered PDF report"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Submission failed"
// @Router /collections [post]
func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	date, err := civil.ParseDate(c.PostForm("date"))
	if err != nil {
		logger.Warn("Invalid collection date", slog.String("date", c.PostForm("date")))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	var entries []dto.DonationEntry
	if err := json.Unmarshal([]byte(c.PostForm("donations")), &entries); err != nil {
		logger.Warn("Failed to parse donations field", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid donations payload: " + err.Error()})
		return
	}

	asset, err := h.captureSlip(c)
	if err != nil {
		logger.Warn("Deposit slip rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft := domain.SubmissionDraft{
		Date:        date,
		ServiceType: domain.ServiceType(c.PostForm("service_type")),
		RecordedBy:  c.PostForm("recorded_by"),
		CountedBy:   c.PostForm("counted_by"),
		Donations:   dto.ToDomainLines(entries),
		DepositSlip: asset,
	}

	result, err := h.submissionService.Submit(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Submission rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Submission failed",
			slog.String("step", string(apperrors.StepOf(err))),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit collection"})
		return
	}

	logger.Info("Collection submitted",
		slog.String("collection_id", result.Collection.CollectionID),
		slog.String("date", result.Collection.Date.String()))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

// captureSlip runs the uploaded slip image through the preprocessor. Absence
// of the file part is reported here, before any collaborator is touched.
func (h *CollectionHandler) captureSlip(c *gin.Context) (*domain.Asset, error) {
	fileHeader, err := c.FormFile("deposit_slip")
	if err != nil {
		return nil, fmt.Errorf("deposit slip image is required")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open deposit slip upload: %w", err)
	}
	defer f.Close()

	mode := media.ModeFile
	if c.PostForm("capture") == string(media.ModeCamera) {
		mode = media.ModeCamera
	}
	device := media.UploadCapture{
		Pre:      h.preprocessor,
		Reader:   f,
		Filename: fileHeader.Filename,
		Mode:     mode,
	}
	return device.Capture(c.Request.Context())
}

// GetCollection godoc
// @Summary Get a collection by ID
// @Description Retrieves a persisted collection with its donations and recomputed total
// @Tags collections
// @Produce json
// @Param   collectionID path string true "Collection ID"
// @Success 200 {object} dto.CollectionResponse
// @Failure 404 {object} map[string]string "Collection not found"
// @Failure 500 {object} map[string]string "Failed to retrieve collection"
// @Router /collections/{collectionID} [get]
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collectionID")

	collection, slipURL, err := h.collectionService.GetCollectionByID(c.Request.Context(), collectionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Collection not found", slog.String("collection_id", collectionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		} else {
			logger.Error("Failed to get collection", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve collection"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCollectionResponse(collection, slipURL))
}

// ExportCollections godoc
// @Summary Export collection reports for a date range
// @Description Streams one rendered PDF per collection dated within [start, end] as a multipart/mixed response
// @Tags collections
// @Produce multipart/mixed
// @Param   start query string true "Range start (YYYY-MM-DD)"
// @Param   end query string true "Range end (YYYY-MM-DD)"
// @Success 200 {file} binary "Multipart stream of PDF reports"
// @Failure 400 {object} map[string]string "Invalid range"
// @Failure 500 {object} map[string]string "Export failed"
// @Router /collections/export [get]
func (h *CollectionHandler) ExportCollections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	start, err := civil.ParseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date, expected YYYY-MM-DD"})
		return
	}
	end, err := civil.ParseDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date, expected YYYY-MM-DD"})
		return
	}

	mw := multipart.NewWriter(c.Writer)
	streaming := false
	deliver := func(artifact domain.ReportArtifact) error {
		if !streaming {
			c.Header("Content-Type", "multipart/mixed; boundary="+mw.Boundary())
			c.Status(http.StatusOK)
			streaming = true
		}
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", "application/pdf")
		header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
		part, err := mw.CreatePart(header)
		if err != nil {
			return err
		}
		_, err = part.Write(artifact.Content)
		return err
	}

	delivered, err := h.exportService.Export(c.Request.Context(), start, end, deliver)
	if err != nil {
		if !streaming {
			if errors.Is(err, apperrors.ErrValidation) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			logger.Error("Export failed before streaming", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export collections"})
			return
		}
		// Headers are already on the wire; the truncated stream is all we
		// can signal to the client.
		logger.Error("Export aborted mid-stream",
			slog.Int("delivered", delivered),
			slog.String("step", string(apperrors.StepOf(err))),
			slog.String("error", err.Error()))
		return
	}

	if !streaming {
		// Empty range: an empty multipart body is still a valid response.
		c.Header("Content-Type", "multipart/mixed; boundary="+mw.Boundary())
		c.Status(http.StatusOK)
	}
	if err := mw.Close(); err != nil {
		logger.Error("Failed to finish export stream", slog.String("error", err.Error()))
		return
	}
	logger.Info("Export completed",
		slog.String("start", start.String()),
		slog.String("end", end.String()),
		slog.Int("delivered", delivered))
}
