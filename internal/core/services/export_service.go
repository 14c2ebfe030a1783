package services

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
	"github.com/tithr-app/tithr_backend/internal/core/ports"
	portsrepo "github.com/tithr-app/tithr_backend/internal/core/ports/repositories"
	portssvc "github.com/tithr-app/tithr_backend/internal/core/ports/services"
	"github.com/tithr-app/tithr_backend/internal/middleware"
	"github.com/tithr-app/tithr_backend/internal/report"
)

// exportService re-renders reports over a historical date range, one
// collection at a time in ascending date order. Records are processed
// sequentially, bounding peak memory to one in-flight artifact.
type exportService struct {
	repo           portsrepo.CollectionReaderRepository
	blobs          ports.BlobStore
	renderer       ports.ReportRenderer
	storageBaseURL string
}

// NewExportService creates a new ExportService.
func NewExportService(repo portsrepo.CollectionReaderRepository, blobs ports.BlobStore, renderer ports.ReportRenderer, storageBaseURL string) portssvc.ExportSvcFacade {
	return &exportService{
		repo:           repo,
		blobs:          blobs,
		renderer:       renderer,
		storageBaseURL: storageBaseURL,
	}
}

var _ portssvc.ExportSvcFacade = (*exportService)(nil)

// Export queries all collections dated within [start, end] inclusive and
// delivers one artifact per match. Fail-fast: a range query failure aborts
// before any artifact is produced, and the first render or delivery failure
// aborts the remaining sequence with no partial-success reporting.
func (s *exportService) Export(ctx context.Context, start, end civil.Date, deliver func(domain.ReportArtifact) error) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if start.IsZero() || end.IsZero() {
		return 0, fmt.Errorf("%w: start and end dates are required", apperrors.ErrValidation)
	}
	if end.Before(start) {
		return 0, fmt.Errorf("%w: end date %s precedes start date %s", apperrors.ErrValidation, end, start)
	}

	collections, err := s.repo.FindCollectionsByDateRange(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("query collections in [%s, %s]: %w", start, end, err)
	}
	logger.Info("Export range matched", slog.Int("collections", len(collections)))

	delivered := 0
	for _, c := range collections {
		input := domain.ReportInput{
			Collection:     c,
			Donations:      c.Donations,
			DepositSlipURL: report.ResolveSlipURL(c.DepositSlipRef, s.storageBaseURL),
		}
		// A slip that cannot be fetched degrades to a URL line in the
		// report; it does not abort the export.
		if c.DepositSlipRef != "" {
			img, err := s.blobs.Fetch(ctx, c.DepositSlipRef)
			if err != nil {
				logger.Warn("Deposit slip fetch failed; report falls back to the URL",
					slog.String("collection_id", c.CollectionID), slog.String("error", err.Error()))
			} else {
				input.DepositSlipImage = img
			}
		}

		pdf, err := s.renderer.RenderPDF(input)
		if err != nil {
			return delivered, asStepError(apperrors.StepRender, fmt.Errorf("render collection %s: %w", c.CollectionID, err))
		}

		artifact := domain.ReportArtifact{
			Filename: domain.ArtifactFilename(c.Date),
			Content:  pdf,
			Date:     c.Date,
		}
		if err := deliver(artifact); err != nil {
			return delivered, fmt.Errorf("deliver %s: %w", artifact.Filename, err)
		}
		delivered++
	}

	return delivered, nil
}
