package models

import (
	"time"
)

// ContactStatus is the handling state of a contact submission.
type ContactStatus string

const (
	ContactNew        ContactStatus = "new"
	ContactInProgress ContactStatus = "in_progress"
	ContactResponded  ContactStatus = "responded"
	ContactClosed     ContactStatus = "closed"
)

// Valid reports whether s is a known status.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactInProgress, ContactResponded, ContactClosed:
		return true
	default:
		return false
	}
}

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID              uint64        `gorm:"primaryKey" json:"id"`
	Name            string        `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Email           string        `gorm:"size:255;not null" json:"email" validate:"required,email,max=255"`
	Phone           *string       `gorm:"size:50" json:"phone" validate:"omitempty,max=50"`
	ServiceInterest *string       `gorm:"size:255" json:"serviceInterest" validate:"omitempty,max=255"`
	Message         string        `gorm:"type:text;not null" json:"message" validate:"required,max=5000"`
	Status          ContactStatus `gorm:"type:varchar(20);not null;index" json:"status" validate:"required,oneof=new in_progress responded closed"`
	InternalNotes   *string       `json:"internalNotes"`
	RespondedAt     *time.Time    `json:"respondedAt"`
	CreatedAt       time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// TableName sets the table name.
func (ContactSubmission) TableName() string { return "contact_submissions" }
