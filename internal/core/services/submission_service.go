package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
	"github.com/tithr-app/tithr_backend/internal/core/ports"
	portsrepo "github.com/tithr-app/tithr_backend/internal/core/ports/repositories"
	portssvc "github.com/tithr-app/tithr_backend/internal/core/ports/services"
	"github.com/tithr-app/tithr_backend/internal/middleware"
	"github.com/tithr-app/tithr_backend/internal/report"
)

// slipPathPrefix is the bucket folder deposit slips live under.
const slipPathPrefix = "slips/"

// submissionService runs the submission pipeline: strictly sequential steps,
// terminal on the first failure. Known consistency gaps are deliberate and
// documented rather than repaired: a failed collection insert leaves the
// uploaded slip orphaned, and a failed donation batch leaves a collection row
// with no line items. Neither case triggers a compensating delete.
type submissionService struct {
	repo           portsrepo.CollectionWriterRepository
	blobs          ports.BlobStore
	renderer       ports.ReportRenderer
	storageBaseURL string
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(repo portsrepo.CollectionWriterRepository, blobs ports.BlobStore, renderer ports.ReportRenderer, storageBaseURL string) portssvc.SubmissionSvcFacade {
	return &submissionService{
		repo:           repo,
		blobs:          blobs,
		renderer:       renderer,
		storageBaseURL: storageBaseURL,
	}
}

var _ portssvc.SubmissionSvcFacade = (*submissionService)(nil)

// Submit runs the pipeline for one draft:
// Uploading -> PersistingCollection -> PersistingDonations -> Rendering,
// then hands the rendered PDF back for local delivery. Validation failures are
// reported before Uploading begins and no collaborator is called.
func (s *submissionService) Submit(ctx context.Context, draft domain.SubmissionDraft) (*domain.SubmissionResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	// Uploading. On failure nothing has been persisted yet, so no cleanup
	// is required.
	slipPath := slipPathPrefix + draft.DepositSlip.Name
	storedRef, err := s.blobs.Put(ctx, slipPath, draft.DepositSlip.Content, draft.DepositSlip.ContentType)
	if err != nil {
		return nil, apperrors.NewStepError(apperrors.StepUpload, fmt.Errorf("upload deposit slip %s: %w", slipPath, err))
	}
	logger.Info("Deposit slip uploaded", slog.String("path", storedRef))

	// PersistingCollection. The slip ref is set only because the upload
	// above succeeded.
	saved, err := s.repo.SaveCollection(ctx, domain.Collection{
		Date:           draft.Date,
		ServiceType:    draft.ServiceType,
		RecordedBy:     draft.RecordedBy,
		CountedBy:      draft.CountedBy,
		DepositSlipRef: storedRef,
	})
	if err != nil {
		logger.Warn("Collection insert failed after slip upload; the uploaded blob is now orphaned",
			slog.String("path", storedRef), slog.String("error", err.Error()))
		return nil, apperrors.NewStepError(apperrors.StepPersistCollection, fmt.Errorf("insert collection: %w", err))
	}

	// PersistingDonations. One batch, all rows tagged with the assigned id.
	donations := make([]domain.Donation, len(draft.Donations))
	for i, line := range draft.Donations {
		donations[i] = domain.Donation{
			CollectionID: saved.CollectionID,
			DonorName:    line.DonorName,
			CheckNumber:  line.CheckNumber,
			Amount:       line.Amount,
			DonationType: line.DonationType,
			Position:     i,
		}
	}
	if err := s.repo.SaveDonations(ctx, donations); err != nil {
		logger.Warn("Donation batch insert failed; collection row exists without line items",
			slog.String("collection_id", saved.CollectionID), slog.String("error", err.Error()))
		return nil, apperrors.NewStepError(apperrors.StepPersistDonations, fmt.Errorf("insert donations for collection %s: %w", saved.CollectionID, err))
	}
	logger.Info("Collection persisted",
		slog.String("collection_id", saved.CollectionID),
		slog.Int("donations", len(donations)))

	// Rendering, from the in-memory donation list rather than a re-read.
	// The slip bytes are still in hand, so embed them directly.
	pdf, err := s.renderer.RenderPDF(domain.ReportInput{
		Collection:       *saved,
		Donations:        donations,
		DepositSlipURL:   report.ResolveSlipURL(storedRef, s.storageBaseURL),
		DepositSlipImage: draft.DepositSlip.Content,
	})
	if err != nil {
		return nil, asStepError(apperrors.StepRender, err)
	}

	// Delivering: the caller downloads the bytes. Persistence already
	// succeeded, so nothing past this point can invalidate the record.
	saved.Donations = donations
	return &domain.SubmissionResult{
		Collection: *saved,
		PDF:        pdf,
		Filename:   domain.ArtifactFilename(saved.Date),
		NextDraft:  domain.EmptyDraft(civil.DateOf(time.Now())),
	}, nil
}

// validateDraft rejects a draft before any side-effecting step starts.
func validateDraft(draft domain.SubmissionDraft) error {
	if draft.DepositSlip == nil || len(draft.DepositSlip.Content) == 0 {
		return fmt.Errorf("%w: deposit slip is required", apperrors.ErrValidation)
	}
	if draft.Date.IsZero() {
		return fmt.Errorf("%w: date is required", apperrors.ErrValidation)
	}
	if !draft.ServiceType.IsValid() {
		return fmt.Errorf("%w: unknown service type %q", apperrors.ErrValidation, draft.ServiceType)
	}
	if draft.RecordedBy == "" || draft.CountedBy == "" {
		return fmt.Errorf("%w: recorded by and counted by are required", apperrors.ErrValidation)
	}
	if len(draft.Donations) == 0 {
		return fmt.Errorf("%w: at least one donation row is required", apperrors.ErrValidation)
	}
	for i, line := range draft.Donations {
		if line.DonorName == "" {
			return fmt.Errorf("%w: donation %d is missing a donor name", apperrors.ErrValidation, i+1)
		}
		if !line.DonationType.IsValid() {
			return fmt.Errorf("%w: donation %d has unknown type %q", apperrors.ErrValidation, i+1, line.DonationType)
		}
		if line.Amount.IsNegative() {
			return fmt.Errorf("%w: donation %d has a negative amount", apperrors.ErrValidation, i+1)
		}
	}
	return nil
}

// asStepError tags err with step unless it already carries one.
func asStepError(step apperrors.Step, err error) error {
	if apperrors.StepOf(err) != "" {
		return err
	}
	return apperrors.NewStepError(step, err)
}
