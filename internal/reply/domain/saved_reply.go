package domain

import "time"

// SavedReply is a generated reply the user chose to keep in their history
type SavedReply struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	UserID         string    `json:"user_id" gorm:"index:idx_email_replies_user_created;not null"`
	OriginalEmail  string    `json:"original_email" gorm:"type:text;not null"`
	GeneratedReply string    `json:"generated_reply" gorm:"type:text;not null"`
	Tone           Tone      `json:"tone" gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time `json:"created_at" gorm:"index:idx_email_replies_user_created"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (SavedReply) TableName() string {
	return "email_replies"
}
