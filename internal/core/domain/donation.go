package domain

import "github.com/shopspring/decimal"

// DonationType categorizes a single offering line item.
type DonationType string

const (
	Tithes   DonationType = "Tithes"
	Freewill DonationType = "Freewill"
	Feast    DonationType = "Feast"
	Audio    DonationType = "Audio"
	Other    DonationType = "Other"
)

// DonationTypes lists every valid donation type, in display order.
var DonationTypes = []DonationType{Tithes, Freewill, Feast, Audio, Other}

// IsValid reports whether d is one of the known donation types.
func (d DonationType) IsValid() bool {
	for _, t := range DonationTypes {
		if d == t {
			return true
		}
	}
	return false
}

// Donation is one line item within a collection. Donations are inserted as a
// single batch immediately after their parent collection exists and are never
// mutated afterwards.
type Donation struct {
	DonationID   string          `json:"donationID"`
	CollectionID string          `json:"collectionID"`
	DonorName    string          `json:"donorName"`
	CheckNumber  string          `json:"checkNumber,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	DonationType DonationType    `json:"donationType"`
	// Position preserves the order the line was entered in, which is also
	// the order it is rendered in.
	Position int `json:"position"`
}

// ComputeTotal sums the amounts of the given donations. Report totals are
// always recomputed from line items with this function, never read from a
// stored field, so they cannot drift from the listing.
func ComputeTotal(donations []Donation) decimal.Decimal {
	total := decimal.Zero
	for _, d := range donations {
		total = total.Add(d.Amount)
	}
	return total
}
