package db

// TrialData is the persisted representation of a user's trial entitlement.
// Timestamps are stored as RFC 3339 text.
type TrialData struct {
	UserID        string `json:"user_id" bson:"user_id" validate:"required"`
	MessagesUsed  int    `json:"messages_used" bson:"messages_used" validate:"gte=0,ltefield=MessagesLimit"`
	MessagesLimit int    `json:"messages_limit" bson:"messages_limit" validate:"gte=0"`
	TrialStart    string `json:"trial_start" bson:"trial_start" validate:"required,timestamp"`
	TrialEnd      string `json:"trial_end" bson:"trial_end" validate:"required,timestamp"`
	IsActive      bool   `json:"is_active" bson:"is_active"`
	CreatedAt     string `json:"created_at" bson:"created_at" validate:"required,timestamp"`
	UpdatedAt     string `json:"updated_at" bson:"updated_at" validate:"required,timestamp"`
}
