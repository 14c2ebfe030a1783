package services_test

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
	portsrepo "github.com/tithr-app/tithr_backend/internal/core/ports/repositories"
	portssvc "github.com/tithr-app/tithr_backend/internal/core/ports/services"
	"github.com/tithr-app/tithr_backend/internal/core/services"
)

// --- Mock CollectionRepository ---

type MockCollectionRepository struct {
	mock.Mock
}

var _ portsrepo.CollectionRepositoryFacade = (*MockCollectionRepository)(nil)

func (m *MockCollectionRepository) SaveCollection(ctx context.Context, collection domain.Collection) (*domain.Collection, error) {
	args := m.Called(ctx, collection)
	var saved *domain.Collection
	if args.Get(0) != nil {
		saved = args.Get(0).(*domain.Collection)
	}
	return saved, args.Error(1)
}

func (m *MockCollectionRepository) SaveDonations(ctx context.Context, donations []domain.Donation) error {
	args := m.Called(ctx, donations)
	return args.Error(0)
}

func (m *MockCollectionRepository) FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	args := m.Called(ctx, collectionID)
	var collection *domain.Collection
	if args.Get(0) != nil {
		collection = args.Get(0).(*domain.Collection)
	}
	return collection, args.Error(1)
}

func (m *MockCollectionRepository) FindCollectionsByDateRange(ctx context.Context, start, end civil.Date) ([]domain.Collection, error) {
	args := m.Called(ctx, start, end)
	var collections []domain.Collection
	if args.Get(0) != nil {
		collections = args.Get(0).([]domain.Collection)
	}
	return collections, args.Error(1)
}

// --- Mock BlobStore ---

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, path, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Fetch(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	var data []byte
	if args.Get(0) != nil {
		data = args.Get(0).([]byte)
	}
	return data, args.Error(1)
}

// --- Mock ReportRenderer ---

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderPDF(input domain.ReportInput) ([]byte, error) {
	args := m.Called(input)
	var pdf []byte
	if args.Get(0) != nil {
		pdf = args.Get(0).([]byte)
	}
	return pdf, args.Error(1)
}

func (m *MockRenderer) RenderHTMLSummary(input domain.ReportInput) (string, error) {
	args := m.Called(input)
	return args.String(0), args.Error(1)
}

// --- Test Suite ---

type SubmissionServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockCollectionRepository
	mockBlobs    *MockBlobStore
	mockRenderer *MockRenderer
	service      portssvc.SubmissionSvcFacade
}

func (suite *SubmissionServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCollectionRepository)
	suite.mockBlobs = new(MockBlobStore)
	suite.mockRenderer = new(MockRenderer)
	suite.service = services.NewSubmissionService(suite.mockRepo, suite.mockBlobs, suite.mockRenderer, "https://storage.example.com/slips-bucket")
}

func validDraft() domain.SubmissionDraft {
	return domain.SubmissionDraft{
		Date:        civil.Date{Year: 2024, Month: 5, Day: 4},
		ServiceType: domain.SabbathClass,
		RecordedBy:  "Alice",
		CountedBy:   "Bob",
		Donations: []domain.DonationLine{
			{DonorName: "Alice", Amount: decimal.RequireFromString("50.00"), DonationType: domain.Tithes},
			{DonorName: "Bob", CheckNumber: "102", Amount: decimal.RequireFromString("25.50"), DonationType: domain.Freewill},
		},
		DepositSlip: &domain.Asset{
			Name:        "1714786523123_slip.jpg",
			ContentType: "image/jpeg",
			Content:     []byte("jpeg-bytes"),
			Width:       1200,
			Height:      545,
		},
	}
}

// --- Validation Tests ---

func (suite *SubmissionServiceTestSuite) TestSubmit_MissingSlip_NoCollaboratorTouched() {
	ctx := context.Background()
	draft := validDraft()
	draft.DepositSlip = nil

	result, err := suite.service.Submit(ctx, draft)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBlobs.AssertNotCalled(suite.T(), "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCollection", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDonations", mock.Anything, mock.Anything)
	suite.mockRenderer.AssertNotCalled(suite.T(), "RenderPDF", mock.Anything)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_UnknownServiceType() {
	ctx := context.Background()
	draft := validDraft()
	draft.ServiceType = "Bake Sale"

	result, err := suite.service.Submit(ctx, draft)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBlobs.AssertNotCalled(suite.T(), "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_NegativeAmount() {
	ctx := context.Background()
	draft := validDraft()
	draft.Donations[0].Amount = decimal.RequireFromString("-5.00")

	result, err := suite.service.Submit(ctx, draft)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockBlobs.AssertNotCalled(suite.T(), "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_NoDonationRows() {
	ctx := context.Background()
	draft := validDraft()
	draft.Donations = nil

	result, err := suite.service.Submit(ctx, draft)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Pipeline Step Failure Tests ---

func (suite *SubmissionServiceTestSuite) TestSubmit_UploadFailure_NothingPersisted() {
	ctx := context.Background()
	draft := validDraft()

	suite.mockBlobs.On("Put", ctx, "slips/1714786523123_slip.jpg", draft.DepositSlip.Content, "image/jpeg").
		Return("", assert.AnError).Once()

	result, err := suite.service.Submit(ctx, draft)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Equal(apperrors.StepUpload, apperrors.StepOf(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCollection", mock.Anything, mock.Anything)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDonations", mock.Anything, mock.Anything)
	suite.mockBlobs.AssertExpectations(suite.T())
}

func (suite *SubmissionServiceTestSuite) TestSubmit_CollectionInsertFailure_NoDonationBatch() {
	ctx := context.Background()
	draft := validDraft()

	suite.mockBlobs.On("Put", ctx, "slips/1714786523123_slip.jpg", draft.DepositSlip.Content, "image/jpeg").
		Return("slips/1714786523123_slip.jpg", nil).Once()
	suite.mockRepo.On("SaveCollection", ctx, mock.MatchedBy(func(c domain.Collection) bool {
		return c.DepositSlipRef == "slips/1714786523123_slip.jpg" && c.Date == draft.Date
	})).Return(nil, assert.AnError).Once()

	result, err := suite.service.Submit(ctx, draft)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Equal(apperrors.StepPersistCollection, apperrors.StepOf(err))
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveDonations", mock.Anything, mock.Anything)
	suite.mockRenderer.AssertNotCalled(suite.T(), "RenderPDF", mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SubmissionServiceTestSuite) TestSubmit_DonationBatchFailure_NoRender() {
	ctx := context.Background()
	draft := validDraft()
	collectionID := uuid.NewString()
	saved := &domain.Collection{
		CollectionID:   collectionID,
		Date:           draft.Date,
		ServiceType:    draft.ServiceType,
		RecordedBy:     draft.RecordedBy,
		CountedBy:      draft.CountedBy,
		DepositSlipRef: "slips/1714786523123_slip.jpg",
	}

	suite.mockBlobs.On("Put", ctx, "slips/1714786523123_slip.jpg", draft.DepositSlip.Content, "image/jpeg").
		Return("slips/1714786523123_slip.jpg", nil).Once()
	suite.mockRepo.On("SaveCollection", ctx, mock.AnythingOfType("domain.Collection")).Return(saved, nil).Once()
	suite.mockRepo.On("SaveDonations", ctx, mock.AnythingOfType("[]domain.Donation")).Return(assert.AnError).Once()

	result, err := suite.service.Submit(ctx, draft)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Equal(apperrors.StepPersistDonations, apperrors.StepOf(err))
	suite.mockRenderer.AssertNotCalled(suite.T(), "RenderPDF", mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SubmissionServiceTestSuite) TestSubmit_RenderFailure_AfterPersist() {
	ctx := context.Background()
	draft := validDraft()
	saved := &domain.Collection{
		CollectionID:   uuid.NewString(),
		Date:           draft.Date,
		ServiceType:    draft.ServiceType,
		DepositSlipRef: "slips/1714786523123_slip.jpg",
	}

	suite.mockBlobs.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return("slips/1714786523123_slip.jpg", nil).Once()
	suite.mockRepo.On("SaveCollection", ctx, mock.AnythingOfType("domain.Collection")).Return(saved, nil).Once()
	suite.mockRepo.On("SaveDonations", ctx, mock.AnythingOfType("[]domain.Donation")).Return(nil).Once()
	suite.mockRenderer.On("RenderPDF", mock.AnythingOfType("domain.ReportInput")).Return(nil, assert.AnError).Once()

	result, err := suite.service.Submit(ctx, draft)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.Equal(apperrors.StepRender, apperrors.StepOf(err))
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Success Path ---

func (suite *SubmissionServiceTestSuite) TestSubmit_Success() {
	ctx := context.Background()
	draft := validDraft()
	collectionID := uuid.NewString()
	saved := &domain.Collection{
		CollectionID:   collectionID,
		Date:           draft.Date,
		ServiceType:    draft.ServiceType,
		RecordedBy:     draft.RecordedBy,
		CountedBy:      draft.CountedBy,
		DepositSlipRef: "slips/1714786523123_slip.jpg",
	}
	pdfBytes := []byte("%PDF-1.3 fake")

	suite.mockBlobs.On("Put", ctx, "slips/1714786523123_slip.jpg", draft.DepositSlip.Content, "image/jpeg").
		Return("slips/1714786523123_slip.jpg", nil).Once()
	suite.mockRepo.On("SaveCollection", ctx, mock.AnythingOfType("domain.Collection")).Return(saved, nil).Once()
	suite.mockRepo.On("SaveDonations", ctx, mock.MatchedBy(func(donations []domain.Donation) bool {
		if len(donations) != 2 {
			return false
		}
		for i, d := range donations {
			if d.CollectionID != collectionID || d.Position != i {
				return false
			}
		}
		return donations[0].DonorName == "Alice" && donations[1].CheckNumber == "102"
	})).Return(nil).Once()
	suite.mockRenderer.On("RenderPDF", mock.MatchedBy(func(input domain.ReportInput) bool {
		return input.Collection.CollectionID == collectionID &&
			len(input.Donations) == 2 &&
			input.DepositSlipURL == "https://storage.example.com/slips-bucket/slips/1714786523123_slip.jpg" &&
			len(input.DepositSlipImage) > 0
	})).Return(pdfBytes, nil).Once()

	result, err := suite.service.Submit(ctx, draft)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(collectionID, result.Collection.CollectionID)
	suite.Equal(pdfBytes, result.PDF)
	suite.Equal("collection_2024-05-04.pdf", result.Filename)
	suite.Len(result.Collection.Donations, 2)

	// The reset draft has one blank default row and no slip.
	suite.Len(result.NextDraft.Donations, 1)
	suite.Equal(domain.Tithes, result.NextDraft.Donations[0].DonationType)
	suite.True(result.NextDraft.Donations[0].Amount.IsZero())
	suite.Nil(result.NextDraft.DepositSlip)
	suite.Equal(domain.SabbathClass, result.NextDraft.ServiceType)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockBlobs.AssertExpectations(suite.T())
	suite.mockRenderer.AssertExpectations(suite.T())
}

// --- Run Suite ---

func TestSubmissionService(t *testing.T) {
	suite.Run(t, new(SubmissionServiceTestSuite))
}
