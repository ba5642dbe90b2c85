package db

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"library-management-backend/models"
)

// Books

func (r *Repo) CreateBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *Repo) FindBookByID(ctx context.Context, id string) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).First(&b, "id = ? AND deleted = FALSE", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// SearchBooks matches q against title/author/genre, soft-deleted rows
// excluded. Empty q lists the whole catalog.
func (r *Repo) SearchBooks(ctx context.Context, q string) ([]models.Book, error) {
	tx := r.DB.WithContext(ctx).Where("deleted = FALSE")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("title ILIKE ? OR author ILIKE ? OR genre ILIKE ?", like, like, like)
	}
	var books []models.Book
	err := tx.Order("title ASC").Find(&books).Error
	return books, err
}

func (r *Repo) UpdateBook(ctx context.Context, b *models.Book) error {
	res := r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND deleted = FALSE", b.ID).
		Updates(map[string]any{
			"title":            b.Title,
			"author":           b.Author,
			"genre":            b.Genre,
			"published_year":   b.PublishedYear,
			"available_copies": b.AvailableCopies,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SoftDeleteBook hides the book from search and new issues; the row stays
// because ledger entries reference it.
func (r *Repo) SoftDeleteBook(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ? AND deleted = FALSE", id).
		Update("deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
