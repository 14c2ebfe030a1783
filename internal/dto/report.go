package dto

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
)

// CollectionPayload is the collection header carried in a send-report request.
type CollectionPayload struct {
	CollectionID string `json:"id"`
	Date         string `json:"date" binding:"required"`
	ServiceType  string `json:"service_type" binding:"required,servicetype"`
	RecordedBy   string `json:"recorded_by" binding:"required"`
	CountedBy    string `json:"counted_by" binding:"required"`
}

// SendReportRequest asks for the report email of an already-submitted
// collection. The client-sent total is accepted for shape compatibility but
// ignored; the total is always recomputed from the line items.
type SendReportRequest struct {
	Collection CollectionPayload `json:"collection" binding:"required"`
	Donations  []DonationEntry   `json:"donations" binding:"required,min=1,dive"`
	Total      decimal.Decimal   `json:"total"`
	DepositURL string            `json:"depositUrl"`
}

// ToDomain converts the request into the domain collection and donation list
// the dispatch service consumes.
func (r SendReportRequest) ToDomain() (domain.Collection, []domain.Donation, error) {
	date, err := civil.ParseDate(r.Collection.Date)
	if err != nil {
		return domain.Collection{}, nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, r.Collection.Date)
	}

	donations := make([]domain.Donation, 0, len(r.Donations))
	for i, e := range r.Donations {
		if e.Amount.IsNegative() {
			return domain.Collection{}, nil, fmt.Errorf("%w: donation %d has a negative amount", apperrors.ErrValidation, i+1)
		}
		donations = append(donations, domain.Donation{
			CollectionID: r.Collection.CollectionID,
			DonorName:    e.DonorName,
			CheckNumber:  e.CheckNumber,
			Amount:       e.Amount,
			DonationType: domain.DonationType(e.DonationType),
			Position:     i,
		})
	}

	collection := domain.Collection{
		CollectionID: r.Collection.CollectionID,
		Date:         date,
		ServiceType:  domain.ServiceType(r.Collection.ServiceType),
		RecordedBy:   r.Collection.RecordedBy,
		CountedBy:    r.Collection.CountedBy,
	}
	return collection, donations, nil
}
