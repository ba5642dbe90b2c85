package models

import "time"

const BookRequestTable = "lib_book_requests"

const (
	RequestTypeIssue  = "ISSUE"
	RequestTypeReturn = "RETURN"

	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestRejected = "REJECTED"
)

// BookRequest is a member-submitted proposal, resolved exactly once by an
// admin (PENDING -> APPROVED or REJECTED). TransactionID is only
// meaningful for RETURN requests, where it must point at the open
// transaction being returned.
type BookRequest struct {
	ID            string  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string  `gorm:"type:uuid;index;not null" json:"userId"`
	BookID        string  `gorm:"type:uuid;index;not null" json:"bookId"`
	Type          string  `gorm:"size:20;not null" json:"type"`
	Status        string  `gorm:"size:20;not null;index;default:'PENDING'" json:"status"`
	TransactionID *string `gorm:"type:uuid" json:"transactionId,omitempty"`
	Notes         string  `gorm:"type:text" json:"notes,omitempty"`

	AdminID    *string    `gorm:"type:uuid" json:"adminId,omitempty"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (BookRequest) TableName() string { return BookRequestTable }
