package domain

import "cloud.google.com/go/civil"

// ReportInput is everything the renderer needs for one collection report.
// The total is not part of the input: it is recomputed from Donations at
// render time (see ComputeTotal).
type ReportInput struct {
	Collection Collection
	// Donations in the order they should be listed.
	Donations []Donation
	// DepositSlipURL is the resolved, absolute URL of the slip image.
	// Empty when the collection has no slip reference.
	DepositSlipURL string
	// DepositSlipImage holds the fetched slip bytes when the caller could
	// resolve them. When nil but DepositSlipURL is set, the renderer falls
	// back to printing the URL.
	DepositSlipImage []byte
}

// ReportArtifact is one rendered report document. Derived, never persisted.
type ReportArtifact struct {
	Filename string
	Content  []byte
	Date     civil.Date
}

// ArtifactFilename returns the delivery name for a collection's report,
// "collection_<date>.pdf" with the collection's own date verbatim.
func ArtifactFilename(date civil.Date) string {
	return "collection_" + date.String() + ".pdf"
}
