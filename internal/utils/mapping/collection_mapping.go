package mapping

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/tithr-app/tithr_backend/internal/core/domain"
	"github.com/tithr-app/tithr_backend/internal/models"
)

// ToModelCollection converts a domain collection to its database model.
func ToModelCollection(c domain.Collection) models.Collection {
	var slipRef *string
	if c.DepositSlipRef != "" {
		ref := c.DepositSlipRef
		slipRef = &ref
	}
	return models.Collection{
		CollectionID:   c.CollectionID,
		Date:           c.Date.In(time.UTC),
		ServiceType:    string(c.ServiceType),
		RecordedBy:     c.RecordedBy,
		CountedBy:      c.CountedBy,
		DepositSlipRef: slipRef,
		CreatedAt:      c.CreatedAt,
	}
}

// ToDomainCollection converts a database collection model back to the domain.
func ToDomainCollection(m models.Collection) domain.Collection {
	slipRef := ""
	if m.DepositSlipRef != nil {
		slipRef = *m.DepositSlipRef
	}
	return domain.Collection{
		CollectionID:   m.CollectionID,
		Date:           civil.DateOf(m.Date),
		ServiceType:    domain.ServiceType(m.ServiceType),
		RecordedBy:     m.RecordedBy,
		CountedBy:      m.CountedBy,
		DepositSlipRef: slipRef,
		CreatedAt:      m.CreatedAt,
	}
}

// ToModelDonation converts a domain donation to its database model.
func ToModelDonation(d domain.Donation) models.Donation {
	var checkNumber *string
	if d.CheckNumber != "" {
		num := d.CheckNumber
		checkNumber = &num
	}
	return models.Donation{
		DonationID:   d.DonationID,
		CollectionID: d.CollectionID,
		DonorName:    d.DonorName,
		CheckNumber:  checkNumber,
		Amount:       d.Amount,
		DonationType: string(d.DonationType),
		Position:     d.Position,
	}
}

// ToDomainDonation converts a database donation model back to the domain.
func ToDomainDonation(m models.Donation) domain.Donation {
	checkNumber := ""
	if m.CheckNumber != nil {
		checkNumber = *m.CheckNumber
	}
	return domain.Donation{
		DonationID:   m.DonationID,
		CollectionID: m.CollectionID,
		DonorName:    m.DonorName,
		CheckNumber:  checkNumber,
		Amount:       m.Amount,
		DonationType: domain.DonationType(m.DonationType),
		Position:     m.Position,
	}
}
