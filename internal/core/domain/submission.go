package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// DonationLine is a single not-yet-persisted entry on the submission form.
type DonationLine struct {
	DonorName    string          `json:"donorName"`
	CheckNumber  string          `json:"checkNumber"`
	Amount       decimal.Decimal `json:"amount"`
	DonationType DonationType    `json:"donationType"`
}

// SubmissionDraft is the immutable in-memory form state handed to the
// submission pipeline. The pipeline never mutates a draft; on success it
// returns a fresh empty draft for the caller to reset the form with.
type SubmissionDraft struct {
	Date        civil.Date     `json:"date"`
	ServiceType ServiceType    `json:"serviceType"`
	RecordedBy  string         `json:"recordedBy"`
	CountedBy   string         `json:"countedBy"`
	Donations   []DonationLine `json:"donations"`
	// DepositSlip is the normalized slip asset. The slip is mandatory;
	// the pipeline rejects a draft without one before touching any
	// collaborator.
	DepositSlip *Asset `json:"-"`
}

// EmptyDraft returns the initial form configuration: one blank donation row
// of the default type and no deposit slip selected.
func EmptyDraft(date civil.Date) SubmissionDraft {
	return SubmissionDraft{
		Date:        date,
		ServiceType: SabbathClass,
		Donations: []DonationLine{
			{DonationType: Tithes, Amount: decimal.Zero},
		},
	}
}

// SubmissionResult is what a successful pipeline run hands back to the caller.
type SubmissionResult struct {
	Collection Collection
	// PDF is the rendered report artifact for local delivery.
	PDF      []byte
	Filename string
	// NextDraft is the reset form state.
	NextDraft SubmissionDraft
}
