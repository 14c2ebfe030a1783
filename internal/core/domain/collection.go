package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// ServiceType identifies the church service a collection was taken at.
type ServiceType string

const (
	SabbathClass        ServiceType = "Sabbath Class"
	Passover            ServiceType = "Passover"
	UnleavenedBreadDay1 ServiceType = "Feast of Unleavened Bread Day 1"
	UnleavenedBreadDay7 ServiceType = "Feast of Unleavened Bread Day 7"
	Pentecost           ServiceType = "Pentecost"
	MemorialOfTrumpets  ServiceType = "Memorial of Blowing of Trumpets"
	DayOfAtonement      ServiceType = "Day of Atonement"
	FeastOfTabernacles  ServiceType = "Feast of Tabernacles"
	EighthDayFeast      ServiceType = "8th Day Feast"
)

// ServiceTypes lists every valid service type, in display order.
var ServiceTypes = []ServiceType{
	SabbathClass,
	Passover,
	UnleavenedBreadDay1,
	UnleavenedBreadDay7,
	Pentecost,
	MemorialOfTrumpets,
	DayOfAtonement,
	FeastOfTabernacles,
	EighthDayFeast,
}

// IsValid reports whether s is one of the known service types.
func (s ServiceType) IsValid() bool {
	for _, t := range ServiceTypes {
		if s == t {
			return true
		}
	}
	return false
}

// Collection represents one recorded offering event for a single date and
// service. A collection is created once by the submission pipeline and never
// mutated afterwards.
type Collection struct {
	CollectionID string      `json:"collectionID"`
	Date         civil.Date  `json:"date"`
	ServiceType  ServiceType `json:"serviceType"`
	RecordedBy   string      `json:"recordedBy"`
	CountedBy    string      `json:"countedBy"`
	// DepositSlipRef is the storage path of the uploaded deposit slip.
	// Empty only when no slip was uploaded; the submission pipeline never
	// persists a collection referencing a slip that failed to upload.
	DepositSlipRef string     `json:"depositSlipRef"`
	Donations      []Donation `json:"donations,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
