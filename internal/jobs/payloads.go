package jobs

// ProcessItemPayload describes the data needed to process an item
// asynchronously. Keep payload minimal and ID-based; the worker loads
// details from the DB.
type ProcessItemPayload struct {
	ItemID      string `json:"itemId"`
	RequestedBy string `json:"requestedBy,omitempty"` // user who initiated
	RequestID   string `json:"requestId,omitempty"`   // correlation
}
