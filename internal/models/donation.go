package models

import "github.com/shopspring/decimal"

// Donation is the database representation of one offering line item.
type Donation struct {
	DonationID   string          `json:"donationID"`
	CollectionID string          `json:"collectionID"`
	DonorName    string          `json:"donorName"`
	CheckNumber  *string         `json:"checkNumber"` // NULL when the donation was cash
	Amount       decimal.Decimal `json:"amount"`
	DonationType string          `json:"donationType"`
	Position     int             `json:"position"`
}
