package models

import "time"

const TransactionTable = "lib_transactions"

const (
	TxnTypeBorrow = "BORROW"

	TxnBorrowed = "BORROWED"
	TxnReturned = "RETURNED"
	TxnOverdue  = "OVERDUE"
)

// Transaction is a borrow-ledger entry. Rows are never deleted; a return
// flips Status to RETURNED and freezes Fine. While Status is BORROWED the
// fine shown to callers is recomputed from DueAt at read time.
type Transaction struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string     `gorm:"type:uuid;index;not null" json:"userId"`
	BookID     string     `gorm:"type:uuid;index;not null" json:"bookId"`
	Type       string     `gorm:"size:20;not null" json:"type"`
	DueAt      time.Time  `gorm:"index;not null" json:"dueAt"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
	Status     string     `gorm:"size:20;not null;index" json:"status"`
	Fine       int64      `gorm:"not null;default:0" json:"fine"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Transaction) TableName() string { return TransactionTable }
