package models

// Activity is one append-only log entry of a user-attributable action.
// Entries are never updated or deleted; insertion order is the read order.
type Activity struct {
	ID        int64  `gorm:"primaryKey"         json:"id"`
	UserID    int64  `gorm:"not null;index"     json:"userId"`
	Action    string `gorm:"type:text;not null" json:"action"`
	Timestamp int64  `gorm:"not null"           json:"timestamp"`
	Details   string `gorm:"type:text"          json:"details"`
}

// Activity action names written by the core operations.
const (
	ActionCreateTrack       = "create_track"
	ActionAddComment        = "add_comment"
	ActionDistributePayment = "distribute_payment"
	ActionWithdrawRoyalties = "withdraw_royalties"
)
