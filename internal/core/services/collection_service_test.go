package services_test

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
	portssvc "github.com/tithr-app/tithr_backend/internal/core/ports/services"
	"github.com/tithr-app/tithr_backend/internal/core/services"
)

type CollectionServiceTestSuite struct {
	suite.Suite
	mockRepo *MockCollectionRepository
	service  portssvc.CollectionReaderSvcFacade
}

func (suite *CollectionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCollectionRepository)
	suite.service = services.NewCollectionService(suite.mockRepo, "https://storage.example.com/slips-bucket")
}

func (suite *CollectionServiceTestSuite) TestGetCollectionByID_Success() {
	ctx := context.Background()
	collectionID := uuid.NewString()
	expected := &domain.Collection{
		CollectionID:   collectionID,
		Date:           civil.Date{Year: 2024, Month: 5, Day: 4},
		ServiceType:    domain.SabbathClass,
		DepositSlipRef: "slips/a.jpg",
	}

	suite.mockRepo.On("FindCollectionByID", ctx, collectionID).Return(expected, nil).Once()

	collection, slipURL, err := suite.service.GetCollectionByID(ctx, collectionID)

	suite.Require().NoError(err)
	suite.Equal(expected, collection)
	suite.Equal("https://storage.example.com/slips-bucket/slips/a.jpg", slipURL)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CollectionServiceTestSuite) TestGetCollectionByID_NoSlipRef() {
	ctx := context.Background()
	collectionID := uuid.NewString()
	expected := &domain.Collection{CollectionID: collectionID, Date: civil.Date{Year: 2024, Month: 5, Day: 4}}

	suite.mockRepo.On("FindCollectionByID", ctx, collectionID).Return(expected, nil).Once()

	_, slipURL, err := suite.service.GetCollectionByID(ctx, collectionID)

	suite.Require().NoError(err)
	suite.Empty(slipURL)
}

func (suite *CollectionServiceTestSuite) TestGetCollectionByID_NotFound() {
	ctx := context.Background()
	collectionID := uuid.NewString()

	suite.mockRepo.On("FindCollectionByID", ctx, collectionID).Return(nil, apperrors.ErrNotFound).Once()

	collection, _, err := suite.service.GetCollectionByID(ctx, collectionID)

	suite.Require().Error(err)
	suite.Nil(collection)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestCollectionService(t *testing.T) {
	suite.Run(t, new(CollectionServiceTestSuite))
}
