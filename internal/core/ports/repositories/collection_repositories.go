package repositories

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/tithr-app/tithr_backend/internal/core/domain"
)

// CollectionWriterRepository defines the persistence operations used by the
// submission pipeline. Both operations are one-shot: collections and their
// donation batches are never updated or deleted.
type CollectionWriterRepository interface {
	// SaveCollection inserts the collection row and returns it with the
	// store-assigned id and creation time.
	SaveCollection(ctx context.Context, collection domain.Collection) (*domain.Collection, error)

	// SaveDonations inserts all line items of one collection as a single
	// batch. Every row must share the same collection id, and the parent
	// collection must already exist. Any row failure fails the whole call.
	SaveDonations(ctx context.Context, donations []domain.Donation) error
}

// CollectionReaderRepository defines the read operations used by the export
// pipeline and the detail view.
type CollectionReaderRepository interface {
	// FindCollectionByID retrieves a collection with its donations in
	// entry order. Returns apperrors.ErrNotFound when absent.
	FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error)

	// FindCollectionsByDateRange retrieves all collections with a date in
	// [start, end] inclusive, each with its donations attached, ordered by
	// date ascending.
	FindCollectionsByDateRange(ctx context.Context, start, end civil.Date) ([]domain.Collection, error)
}

// CollectionRepositoryFacade combines all collection persistence operations.
type CollectionRepositoryFacade interface {
	CollectionWriterRepository
	CollectionReaderRepository
}
