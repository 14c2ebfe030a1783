package models

import "time"

// Collection is the database representation of a recorded offering event.
type Collection struct {
	CollectionID   string    `json:"collectionID"`
	Date           time.Time `json:"date"` // date column; time component is always midnight UTC
	ServiceType    string    `json:"serviceType"`
	RecordedBy     string    `json:"recordedBy"`
	CountedBy      string    `json:"countedBy"`
	DepositSlipRef *string   `json:"depositSlipRef"` // NULL until a slip upload succeeded
	CreatedAt      time.Time `json:"createdAt"`
}
