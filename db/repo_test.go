// Store-backed repo tests, skipped unless TEST_DATABASE_URL points at a
// throwaway Postgres.
package db_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"library-management-backend/db"
	"library-management-backend/models"
)

func newTestRepo(t *testing.T) (*db.Repo, *gorm.DB) {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping store-backed test")
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	for _, table := range []string{
		models.BookRequestTable,
		models.TransactionTable,
		models.BookTable,
		models.UserTable,
	} {
		require.NoError(t, conn.Exec("DELETE FROM "+table).Error)
	}
	return db.NewRepo(conn), conn
}

func addBook(t *testing.T, repo *db.Repo, title, author, genre string) *models.Book {
	t.Helper()
	b := &models.Book{
		ID:              uuid.NewString(),
		Title:           title,
		Author:          author,
		Genre:           genre,
		PublishedYear:   2001,
		AvailableCopies: 1,
	}
	require.NoError(t, repo.CreateBook(context.Background(), b))
	return b
}

func Test_SearchBooks(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	dune := addBook(t, repo, "Dune", "Frank Herbert", "Science Fiction")
	addBook(t, repo, "Emma", "Jane Austen", "Romance")
	gone := addBook(t, repo, "Dune Messiah", "Frank Herbert", "Science Fiction")
	require.NoError(t, repo.SoftDeleteBook(ctx, gone.ID))

	t.Run("empty_query_lists_live_catalog", func(t *testing.T) {
		books, err := repo.SearchBooks(ctx, "")
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, "Dune", books[0].Title) // title order
		assert.Equal(t, "Emma", books[1].Title)
	})

	t.Run("match_is_case_insensitive", func(t *testing.T) {
		books, err := repo.SearchBooks(ctx, "dUnE")
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, dune.ID, books[0].ID)
	})

	t.Run("matches_author_and_genre_too", func(t *testing.T) {
		byAuthor, err := repo.SearchBooks(ctx, "austen")
		require.NoError(t, err)
		assert.Len(t, byAuthor, 1)

		byGenre, err := repo.SearchBooks(ctx, "romance")
		require.NoError(t, err)
		assert.Len(t, byGenre, 1)
	})

	t.Run("no_match", func(t *testing.T) {
		books, err := repo.SearchBooks(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Empty(t, books)
	})
}

func Test_BookWrites_OnMissingOrDeletedRows(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	b := addBook(t, repo, "Dune", "Frank Herbert", "Science Fiction")
	require.NoError(t, repo.SoftDeleteBook(ctx, b.ID))

	_, err := repo.FindBookByID(ctx, b.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = repo.UpdateBook(ctx, &models.Book{ID: b.ID, Title: "Dune (2nd ed)"})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = repo.SoftDeleteBook(ctx, b.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func Test_ListUserTransactions_LiveFine(t *testing.T) {
	repo, conn := newTestRepo(t)
	ctx := context.Background()

	u := &models.User{
		ID: uuid.NewString(), Username: "reader", Email: "reader@example.com",
		PasswordHash: "x", Role: models.RoleUser, IsActive: true,
	}
	require.NoError(t, repo.CreateUser(ctx, u))
	b := addBook(t, repo, "Dune", "Frank Herbert", "Science Fiction")

	now := time.Now().UTC()
	open := &models.Transaction{
		ID: uuid.NewString(), UserID: u.ID, BookID: b.ID,
		Type: models.TxnTypeBorrow, Status: models.TxnBorrowed,
		DueAt: now.Add(-5 * 24 * time.Hour), // 5 days overdue
	}
	require.NoError(t, conn.Create(open).Error)

	returnedAt := now.Add(-time.Hour)
	closed := &models.Transaction{
		ID: uuid.NewString(), UserID: u.ID, BookID: b.ID,
		Type: models.TxnTypeBorrow, Status: models.TxnReturned,
		DueAt: now.Add(-40 * 24 * time.Hour), ReturnedAt: &returnedAt,
		Fine: 330, // frozen at return time, must not be recomputed
	}
	require.NoError(t, conn.Create(closed).Error)

	rows, err := repo.ListUserTransactions(ctx, u.ID, "", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[string]db.UserTransactionRow{}
	for _, row := range rows {
		byID[row.ID] = row
	}

	assert.True(t, byID[open.ID].Overdue)
	assert.Equal(t, int64(50), byID[open.ID].Fine)
	assert.Equal(t, "Dune", byID[open.ID].BookTitle)

	assert.False(t, byID[closed.ID].Overdue)
	assert.Equal(t, int64(330), byID[closed.ID].Fine)

	t.Run("status_filter", func(t *testing.T) {
		rows, err := repo.ListUserTransactions(ctx, u.ID, models.TxnBorrowed, 10)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, open.ID, rows[0].ID)
	})

	t.Run("other_users_are_invisible", func(t *testing.T) {
		rows, err := repo.ListUserTransactions(ctx, uuid.NewString(), "", 10)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func Test_ListUsers_Paging(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		u := &models.User{
			ID:           uuid.NewString(),
			Username:     "member-" + uuid.NewString()[:8],
			Email:        uuid.NewString()[:8] + "@example.com",
			PasswordHash: "x",
			Role:         models.RoleUser,
			FullName:     "Paging Member",
			IsActive:     true,
		}
		require.NoError(t, repo.CreateUser(ctx, u))
	}

	page1, err := repo.ListUsers(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page1.Total)
	assert.Len(t, page1.Users, 2)

	page2, err := repo.ListUsers(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Users, 1)

	filtered, err := repo.ListUsers(ctx, "paging member", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), filtered.Total)

	none, err := repo.ListUsers(ctx, "nobody", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), none.Total)
}
