package domain

// Action tags an Event broadcast on the shopping list subject.
type Action string

const (
	ActionLoaded      Action = "loaded"
	ActionCreated     Action = "created"
	ActionUpdated     Action = "updated"
	ActionDeleted     Action = "deleted"
	ActionItemAdded   Action = "item_added"
	ActionItemUpdated Action = "item_updated"
	ActionItemRemoved Action = "item_removed"
)

// Event is the payload of the shopping list subject. Only loaded carries
// a full collection; every other action carries just enough context for
// the subscriber to decide whether to re-fetch.
type Event struct {
	Action    Action `json:"action"`
	UserID    string `json:"user_id,omitempty"`
	ListID    string `json:"list_id,omitempty"`
	ItemID    string `json:"item_id,omitempty"`
	ProductID string `json:"product_id,omitempty"`
	Status    Status `json:"status,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	List      *List  `json:"list,omitempty"`
	Lists     []List `json:"lists,omitempty"`
}
