package db

import (
	"context"

	"library-management-backend/models"
)

// Book requests (read side; submit/approve/reject live in workflow)

func (r *Repo) FindRequestByID(ctx context.Context, id string) (*models.BookRequest, error) {
	var req models.BookRequest
	if err := r.DB.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repo) ListRequests(ctx context.Context, status string) ([]models.BookRequest, error) {
	q := r.DB.WithContext(ctx).Model(&models.BookRequest{}).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reqs []models.BookRequest
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *Repo) ListUserRequests(ctx context.Context, userID string) ([]models.BookRequest, error) {
	var reqs []models.BookRequest
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}
