package model

import "time"

// MessageStatus is the triage state of a contact-form message.
type MessageStatus string

const (
	MessageStatusUnread  MessageStatus = "unread"
	MessageStatusRead    MessageStatus = "read"
	MessageStatusReplied MessageStatus = "replied"
)

// Valid reports whether s is one of the known statuses.
func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusUnread, MessageStatusRead, MessageStatusReplied:
		return true
	}
	return false
}

// Message is a public contact-form submission.
type Message struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	Name      string        `json:"name" gorm:"size:128;not null"`
	Email     string        `json:"email" gorm:"size:255"`
	Phone     string        `json:"phone" gorm:"size:64"`
	Company   string        `json:"company" gorm:"size:255"`
	Subject   string        `json:"subject" gorm:"size:255"`
	Content   string        `json:"content" gorm:"type:text;not null"`
	Status    MessageStatus `json:"status" gorm:"type:varchar(20);not null;default:'unread';index"`
	Reply     string        `json:"reply" gorm:"type:text"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
