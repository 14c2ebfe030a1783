package services

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/tithr-app/tithr_backend/internal/core/domain"
)

// SubmissionSvcFacade runs the submission pipeline for one in-progress entry:
// slip upload, collection insert, donation batch insert, report render,
// local delivery.
type SubmissionSvcFacade interface {
	// Submit runs the pipeline for the draft. The draft must carry a
	// normalized deposit slip; a missing slip fails validation before any
	// collaborator is called. The first failing step aborts the run and
	// the error reports which step failed.
	Submit(ctx context.Context, draft domain.SubmissionDraft) (*domain.SubmissionResult, error)
}

// ExportSvcFacade re-renders reports for a historical date range.
type ExportSvcFacade interface {
	// Export renders one artifact per collection dated within
	// [start, end] inclusive, in ascending date order, handing each to
	// deliver as it is produced. Processing is sequential and fail-fast:
	// the first render or delivery failure aborts the remaining range.
	// Returns the number of artifacts delivered.
	Export(ctx context.Context, start, end civil.Date, deliver func(domain.ReportArtifact) error) (int, error)
}

// ReportDispatchSvcFacade emails the report for an already-persisted
// collection.
type ReportDispatchSvcFacade interface {
	// Dispatch renders the PDF and HTML summary from the given record and
	// sends exactly one email with the PDF attached. Transient failures
	// are not retried; the error is surfaced to the caller.
	Dispatch(ctx context.Context, collection domain.Collection, donations []domain.Donation, depositSlipURL string) error
}

// CollectionReaderSvcFacade serves the persisted-record detail view.
type CollectionReaderSvcFacade interface {
	// GetCollectionByID returns the collection with donations, plus the
	// resolved absolute URL of its deposit slip (empty when none).
	GetCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, string, error)
}
