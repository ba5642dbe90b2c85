package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"library-management-backend/models"
)

func Connect(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Transaction{},
		&models.BookRequest{},
	); err != nil {
		return err
	}

	// at most one open borrow per (user, book); concurrent issues that
	// slip past the precondition check hit this index instead
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_borrowed_per_user_book
	  ON %s (user_id, book_id)
	  WHERE status = 'BORROWED';
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	// borrow-limit and stats queries scan only open rows
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_by_user
	  ON %s (user_id)
	  WHERE status = 'BORROWED';
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	// pending queue is what admins poll
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_pending_created
	  ON %s (created_at DESC)
	  WHERE status = 'PENDING';
	`, models.BookRequestTable, models.BookRequestTable)).Error; err != nil {
		return err
	}

	return nil
}
