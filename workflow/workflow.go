// Package workflow holds the decision logic that couples book inventory,
// the borrow ledger and the request queue. Every operation runs inside a
// single database transaction with row locks on whatever it mutates, so
// cross-entity consistency (available_copies vs. open borrows) can only
// be observed in valid states.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library-management-backend/models"
)

const (
	DefaultFineRatePerDay = 10
	DefaultLoanPeriod     = 30 * 24 * time.Hour

	// BorrowLimit caps open borrows for non-admin members.
	BorrowLimit = 3
)

type Core struct {
	db         *gorm.DB
	now        func() time.Time
	finePerDay int64
	loanPeriod time.Duration
}

// Config tunes the core; zero values fall back to defaults. Now is
// injectable so tests can pin the clock.
type Config struct {
	FineRatePerDay int64
	LoanPeriod     time.Duration
	Now            func() time.Time
}

func New(db *gorm.DB, cfg Config) *Core {
	c := &Core{
		db:         db,
		now:        cfg.Now,
		finePerDay: cfg.FineRatePerDay,
		loanPeriod: cfg.LoanPeriod,
	}
	if c.now == nil {
		c.now = func() time.Time { return time.Now().UTC() }
	}
	if c.finePerDay <= 0 {
		c.finePerDay = DefaultFineRatePerDay
	}
	if c.loanPeriod <= 0 {
		c.loanPeriod = DefaultLoanPeriod
	}
	return c
}

func (c *Core) FineRatePerDay() int64 { return c.finePerDay }

// IssueBook opens a BORROWED ledger entry for (user, book) and takes one
// copy out of inventory. Checked in order: availability, user, duplicate
// borrow, borrow limit; first failure wins and nothing is written.
func (c *Core) IssueBook(ctx context.Context, bookID, userID string) (*models.Transaction, error) {
	var txn *models.Transaction
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = c.issueLocked(tx, bookID, userID)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return txn, nil
}

// issueLocked runs inside an open transaction. It locks the book row, so
// two concurrent issues of the last copy serialize here and the loser
// sees zero copies.
func (c *Core) issueLocked(tx *gorm.DB, bookID, userID string) (*models.Transaction, error) {
	var b models.Book
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, "id = ? AND deleted = FALSE", bookID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAvailable
		}
		return nil, err
	}
	if b.AvailableCopies <= 0 {
		return nil, ErrNotAvailable
	}

	var u models.User
	if err := tx.First(&u, "id = ? AND is_active = TRUE", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var open int64
	if err := tx.Model(&models.Transaction{}).
		Where("user_id = ? AND book_id = ? AND status = ?", userID, bookID, models.TxnBorrowed).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, ErrDuplicateBorrow
	}

	if !u.IsAdmin() {
		var n int64
		if err := tx.Model(&models.Transaction{}).
			Where("user_id = ? AND status = ?", userID, models.TxnBorrowed).
			Count(&n).Error; err != nil {
			return nil, err
		}
		if n >= BorrowLimit {
			return nil, ErrBorrowLimitExceeded
		}
	}

	now := c.now()
	txn := &models.Transaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		BookID:    bookID,
		Type:      models.TxnTypeBorrow,
		DueAt:     now.Add(c.loanPeriod),
		Status:    models.TxnBorrowed,
		Fine:      0,
		CreatedAt: now,
	}
	if err := tx.Create(txn).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Book{}).
		Where("id = ?", bookID).
		UpdateColumn("available_copies", gorm.Expr("available_copies - 1")).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

// ReturnBook closes a BORROWED ledger entry: freezes the fine, stamps
// returned_at and puts the copy back into inventory.
func (c *Core) ReturnBook(ctx context.Context, transactionID string) (*models.Transaction, error) {
	var txn *models.Transaction
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		txn, err = c.returnLocked(tx, transactionID)
		return err
	})
	if err != nil {
		return nil, translate(err)
	}
	return txn, nil
}

func (c *Core) returnLocked(tx *gorm.DB, transactionID string) (*models.Transaction, error) {
	var t models.Transaction
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&t, "id = ? AND status = ?", transactionID, models.TxnBorrowed).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := c.now()
	fine := Fine(now, t.DueAt, c.finePerDay)
	if err := tx.Model(&models.Transaction{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"returned_at": now,
			"status":      models.TxnReturned,
			"fine":        fine,
		}).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&models.Book{}).
		Where("id = ?", t.BookID).
		UpdateColumn("available_copies", gorm.Expr("available_copies + 1")).Error; err != nil {
		return nil, err
	}

	t.ReturnedAt = &now
	t.Status = models.TxnReturned
	t.Fine = fine
	return &t, nil
}

type SubmitRequestInput struct {
	UserID        string
	BookID        string
	Type          string // models.RequestTypeIssue or models.RequestTypeReturn
	TransactionID *string
	Notes         string
}

// SubmitRequest queues a PENDING request. Availability and limits are
// deliberately not checked here: state may change before an admin acts,
// so approval re-validates everything. The only submission rule is that
// admins issue directly instead of requesting.
func (c *Core) SubmitRequest(ctx context.Context, in SubmitRequestInput) (*models.BookRequest, error) {
	var req *models.BookRequest
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, "id = ? AND is_active = TRUE", in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if in.Type == models.RequestTypeIssue && u.IsAdmin() {
			return ErrForbidden
		}

		req = &models.BookRequest{
			ID:            uuid.NewString(),
			UserID:        in.UserID,
			BookID:        in.BookID,
			Type:          in.Type,
			Status:        models.RequestPending,
			TransactionID: in.TransactionID,
			Notes:         in.Notes,
			CreatedAt:     c.now(),
		}
		return tx.Create(req).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return req, nil
}

// ApproveRequest resolves a PENDING request by re-running the matching
// operation under the same locks as the direct path. Any failure leaves
// the request PENDING; the status flip and the ledger/inventory mutation
// commit together or not at all.
//
// A RETURN request whose transaction is missing or no longer BORROWED
// fails with ErrNotFound instead of being approved as a no-op.
func (c *Core) ApproveRequest(ctx context.Context, requestID, adminID string) (*models.BookRequest, error) {
	var req models.BookRequest
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&req, "id = ? AND status = ?", requestID, models.RequestPending).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		switch req.Type {
		case models.RequestTypeIssue:
			if _, err := c.issueLocked(tx, req.BookID, req.UserID); err != nil {
				return err
			}
		case models.RequestTypeReturn:
			if req.TransactionID == nil || *req.TransactionID == "" {
				return ErrNotFound
			}
			if _, err := c.returnLocked(tx, *req.TransactionID); err != nil {
				return err
			}
		default:
			return ErrNotFound
		}

		now := c.now()
		if err := tx.Model(&models.BookRequest{}).
			Where("id = ?", req.ID).
			Updates(map[string]any{
				"status":      models.RequestApproved,
				"resolved_at": now,
				"admin_id":    adminID,
			}).Error; err != nil {
			return err
		}
		req.Status = models.RequestApproved
		req.ResolvedAt = &now
		req.AdminID = &adminID
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

// RejectRequest flips a PENDING request to REJECTED. No inventory or
// ledger side effects.
func (c *Core) RejectRequest(ctx context.Context, requestID, adminID, notes string) (*models.BookRequest, error) {
	now := c.now()
	updates := map[string]any{
		"status":      models.RequestRejected,
		"resolved_at": now,
		"admin_id":    adminID,
	}
	if notes != "" {
		updates["notes"] = notes
	}
	res := c.db.WithContext(ctx).Model(&models.BookRequest{}).
		Where("id = ? AND status = ?", requestID, models.RequestPending).
		Updates(updates)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var req models.BookRequest
	if err := c.db.WithContext(ctx).First(&req, "id = ?", requestID).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

// Stats is the per-member summary shown on the dashboard.
type Stats struct {
	TotalBorrowed     int64 `json:"totalBorrowed"`
	CurrentlyBorrowed int64 `json:"currentlyBorrowed"`
	OverdueBooks      int64 `json:"overdueBooks"`
	TotalFine         int64 `json:"totalFine"`
}

// UserStats is a pure read. The fine total is recomputed live for open
// loans with the same formula the return path freezes.
func (c *Core) UserStats(ctx context.Context, userID string) (*Stats, error) {
	var s Stats
	db := c.db.WithContext(ctx)

	if err := db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", userID, models.TxnTypeBorrow).
		Count(&s.TotalBorrowed).Error; err != nil {
		return nil, translate(err)
	}
	if err := db.Model(&models.Transaction{}).
		Where("user_id = ? AND status = ?", userID, models.TxnBorrowed).
		Count(&s.CurrentlyBorrowed).Error; err != nil {
		return nil, translate(err)
	}

	now := c.now()
	var overdue []models.Transaction
	if err := db.
		Where("user_id = ? AND status = ? AND due_at < ?", userID, models.TxnBorrowed, now).
		Find(&overdue).Error; err != nil {
		return nil, translate(err)
	}
	s.OverdueBooks = int64(len(overdue))
	for _, t := range overdue {
		s.TotalFine += Fine(now, t.DueAt, c.finePerDay)
	}
	return &s, nil
}
