package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tithr-app/tithr_backend/internal/core/domain"
)

// DonationEntry is one submitted line item. A zero amount is accepted;
// negative amounts are rejected during validation.
type DonationEntry struct {
	DonorName    string          `json:"donor_name" binding:"required"`
	CheckNumber  string          `json:"check_number"`
	Amount       decimal.Decimal `json:"amount"`
	DonationType string          `json:"donation_type" binding:"required,donationtype"`
}

// ToDomainLine converts the entry to a draft donation line.
func (e DonationEntry) ToDomainLine() domain.DonationLine {
	return domain.DonationLine{
		DonorName:    e.DonorName,
		CheckNumber:  e.CheckNumber,
		Amount:       e.Amount,
		DonationType: domain.DonationType(e.DonationType),
	}
}

// ToDomainLines converts a slice of entries preserving order.
func ToDomainLines(entries []DonationEntry) []domain.DonationLine {
	lines := make([]domain.DonationLine, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.ToDomainLine())
	}
	return lines
}

// DonationResponse is one persisted line item in API responses.
type DonationResponse struct {
	DonationID   string          `json:"donation_id"`
	DonorName    string          `json:"donor_name"`
	CheckNumber  string          `json:"check_number,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	DonationType string          `json:"donation_type"`
}

// CollectionResponse is the detail view of a persisted collection. Total is
// recomputed from the line items, never read from storage.
type CollectionResponse struct {
	CollectionID   string             `json:"collection_id"`
	Date           string             `json:"date"`
	ServiceType    string             `json:"service_type"`
	RecordedBy     string             `json:"recorded_by"`
	CountedBy      string             `json:"counted_by"`
	DepositSlipURL string             `json:"deposit_slip_url,omitempty"`
	Donations      []DonationResponse `json:"donations"`
	Total          decimal.Decimal    `json:"total"`
	CreatedAt      string             `json:"created_at"`
}

// ToCollectionResponse maps a domain collection plus its resolved slip URL to
// the API response shape.
func ToCollectionResponse(c *domain.Collection, depositSlipURL string) CollectionResponse {
	donations := make([]DonationResponse, 0, len(c.Donations))
	for _, d := range c.Donations {
		donations = append(donations, DonationResponse{
			DonationID:   d.DonationID,
			DonorName:    d.DonorName,
			CheckNumber:  d.CheckNumber,
			Amount:       d.Amount,
			DonationType: string(d.DonationType),
		})
	}
	return CollectionResponse{
		CollectionID:   c.CollectionID,
		Date:           c.Date.String(),
		ServiceType:    string(c.ServiceType),
		RecordedBy:     c.RecordedBy,
		CountedBy:      c.CountedBy,
		DepositSlipURL: depositSlipURL,
		Donations:      donations,
		Total:          domain.ComputeTotal(c.Donations),
		CreatedAt:      c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
