package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
	"github.com/tithr-app/tithr_backend/internal/core/ports"
	portssvc "github.com/tithr-app/tithr_backend/internal/core/ports/services"
	"github.com/tithr-app/tithr_backend/internal/middleware"
)

// reportDispatchService emails the report for an already-persisted collection:
// exactly one outbound email per call, no retry on transient failure.
type reportDispatchService struct {
	renderer  ports.ReportRenderer
	notifier  ports.Notifier
	recipient string
	// httpClient fetches the slip image for PDF embedding; nil skips the
	// fetch and the report falls back to the URL.
	httpClient *http.Client
}

// NewReportDispatchService creates a new ReportDispatchService.
func NewReportDispatchService(renderer ports.ReportRenderer, notifier ports.Notifier, recipient string, httpClient *http.Client) portssvc.ReportDispatchSvcFacade {
	return &reportDispatchService{
		renderer:   renderer,
		notifier:   notifier,
		recipient:  recipient,
		httpClient: httpClient,
	}
}

var _ portssvc.ReportDispatchSvcFacade = (*reportDispatchService)(nil)

// Dispatch renders the PDF and the HTML summary from the same input, attaches
// the PDF, and sends to the configured recipient with a subject derived from
// the collection date. A send failure does not undo the persisted record.
func (s *reportDispatchService) Dispatch(ctx context.Context, collection domain.Collection, donations []domain.Donation, depositSlipURL string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.recipient == "" {
		return fmt.Errorf("%w: no report recipient configured", apperrors.ErrValidation)
	}

	input := domain.ReportInput{
		Collection:     collection,
		Donations:      donations,
		DepositSlipURL: depositSlipURL,
	}
	if depositSlipURL != "" && s.httpClient != nil {
		if img, err := s.fetchSlip(ctx, depositSlipURL); err != nil {
			logger.Warn("Deposit slip fetch failed; report falls back to the URL",
				slog.String("url", depositSlipURL), slog.String("error", err.Error()))
		} else {
			input.DepositSlipImage = img
		}
	}

	pdf, err := s.renderer.RenderPDF(input)
	if err != nil {
		return asStepError(apperrors.StepRender, err)
	}
	htmlBody, err := s.renderer.RenderHTMLSummary(input)
	if err != nil {
		return asStepError(apperrors.StepRender, err)
	}

	attachment := ports.Attachment{
		Filename:    domain.ArtifactFilename(collection.Date),
		Content:     base64.StdEncoding.EncodeToString(pdf),
		ContentType: "application/pdf",
	}
	subject := "Offerings Report - " + collection.Date.String()

	if err := s.notifier.Send(ctx, []string{s.recipient}, subject, htmlBody, []ports.Attachment{attachment}); err != nil {
		return apperrors.NewStepError(apperrors.StepNotify, fmt.Errorf("send offerings report: %w", err))
	}

	logger.Info("Offerings report dispatched",
		slog.String("collection_id", collection.CollectionID),
		slog.String("date", collection.Date.String()))
	return nil
}

func (s *reportDispatchService) fetchSlip(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
