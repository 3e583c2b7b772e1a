package model

// Purchase represents a single bubble-tea purchase owned by a user.
// Location and Date are optional free text; Date is expected to be an
// ISO date string (YYYY-MM-DD) when present.
type Purchase struct {
	ID       int64   `json:"id"`
	OwnerID  int64   `json:"ownerId"`
	Flavour  string  `json:"flavour"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Location string  `json:"location"`
	Date     string  `json:"date"`
}

// PurchaseRequest represents a create or full-replacement update request.
// PurchaseID is only set for updates.
type PurchaseRequest struct {
	Flavour    string  `json:"flavour"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Location   string  `json:"location"`
	Date       string  `json:"date"`
	OwnerID    int64   `json:"ownerId"`
	PurchaseID int64   `json:"purchaseId,omitempty"`
}

// FlavourTotal is one row of the global popularity ranking: a flavour and
// the summed quantity across all users.
type FlavourTotal struct {
	Flavour    string `json:"flavour"`
	TotalCount int64  `json:"total_count"`
}

// DeleteResponse acknowledges a delete. The same acknowledgement is returned
// whether or not a row was removed, so callers cannot probe for other users'
// purchase ids.
type DeleteResponse struct {
	Status string `json:"status"`
}
