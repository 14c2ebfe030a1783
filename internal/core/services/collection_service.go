package services

import (
	"context"

	"github.com/tithr-app/tithr_backend/internal/core/domain"
	portsrepo "github.com/tithr-app/tithr_backend/internal/core/ports/repositories"
	portssvc "github.com/tithr-app/tithr_backend/internal/core/ports/services"
	"github.com/tithr-app/tithr_backend/internal/report"
)

// collectionService serves persisted-record reads for the detail view.
type collectionService struct {
	repo           portsrepo.CollectionReaderRepository
	storageBaseURL string
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(repo portsrepo.CollectionReaderRepository, storageBaseURL string) portssvc.CollectionReaderSvcFacade {
	return &collectionService{repo: repo, storageBaseURL: storageBaseURL}
}

var _ portssvc.CollectionReaderSvcFacade = (*collectionService)(nil)

// GetCollectionByID returns the collection with its donations plus the
// resolved deposit slip URL, empty when the collection has no slip reference.
func (s *collectionService) GetCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, string, error) {
	collection, err := s.repo.FindCollectionByID(ctx, collectionID)
	if err != nil {
		return nil, "", err
	}
	return collection, report.ResolveSlipURL(collection.DepositSlipRef, s.storageBaseURL), nil
}
