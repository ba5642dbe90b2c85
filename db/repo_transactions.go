package db

import (
	"context"
	"time"

	"library-management-backend/models"
)

// Transactions (read side; issue/return mutations live in workflow)

func (r *Repo) ListTransactions(ctx context.Context, userID, status string) ([]models.Transaction, error) {
	q := r.DB.WithContext(ctx).Model(&models.Transaction{}).Order("created_at DESC")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var txns []models.Transaction
	if err := q.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

// UserTransactionRow is a ledger entry joined with its book, as shown to
// members. Fine is live: for open rows it is recomputed from due_at in
// SQL, for closed rows it is the frozen value.
type UserTransactionRow struct {
	ID         string     `json:"id"`
	BookID     string     `json:"bookId"`
	BookTitle  string     `json:"bookTitle"`
	BookAuthor string     `json:"bookAuthor"`
	Type       string     `json:"type"`
	CreatedAt  time.Time  `json:"createdAt"`
	DueAt      time.Time  `json:"dueAt"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
	Status     string     `json:"status"`
	Fine       int64      `json:"fine"`
	Overdue    bool       `json:"overdue"`
}

func (r *Repo) ListUserTransactions(ctx context.Context, userID, status string, finePerDay int64) ([]UserTransactionRow, error) {
	q := r.DB.WithContext(ctx).
		Table(models.TransactionTable+" t").
		Select(`
			t.id, t.book_id, t.type, t.created_at, t.due_at, t.returned_at, t.status,
			COALESCE(b.title, 'Unknown')  AS book_title,
			COALESCE(b.author, 'Unknown') AS book_author,
			CASE WHEN t.status = 'BORROWED' AND t.due_at < NOW()
			     THEN (FLOOR(EXTRACT(EPOCH FROM (NOW() - t.due_at)) / 86400))::bigint * ?
			     ELSE t.fine
			END AS fine,
			(t.status = 'BORROWED' AND t.due_at < NOW()) AS overdue
		`, finePerDay).
		Joins("LEFT JOIN "+models.BookTable+" b ON b.id = t.book_id").
		Where("t.user_id = ?", userID)
	if status != "" {
		q = q.Where("t.status = ?", status)
	}

	var rows []UserTransactionRow
	if err := q.Order("t.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
