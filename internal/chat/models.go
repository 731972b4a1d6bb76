package chat

import "time"

// Message is one immutable turn of a conversation, grouped by the owning
// student's user id.
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	MessageID string    `gorm:"type:varchar(64);index;not null" json:"messageId"`
	OwnerID   uint64    `gorm:"not null;index:idx_chat_owner_created,priority:1" json:"studentId"`
	Role      string    `gorm:"type:varchar(16);not null" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserType  string    `gorm:"type:varchar(16)" json:"userType,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_chat_owner_created,priority:2" json:"timestamp"`
}

func (Message) TableName() string { return "chat_messages" }
