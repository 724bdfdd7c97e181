package repository

import (
	"context"
	"errors"
	"time"

	"shinypull/internal/model"

	"gorm.io/gorm"
)

type CreatorRequestRepo interface {
	Create(ctx context.Context, request *model.CreatorRequest) error
	PendingOldest(ctx context.Context, limit int) ([]*model.CreatorRequest, error)
	ExistingRequest(ctx context.Context, platform, username, status string) (*model.CreatorRequest, error)
	UpdateStatus(ctx context.Context, id uint64, status string, errorMessage *string) error
}

type creatorRequestRepoImpl struct {
	db *gorm.DB
}

func NewCreatorRequestRepo(db *gorm.DB) CreatorRequestRepo {
	return &creatorRequestRepoImpl{db: db}
}

func (s *creatorRequestRepoImpl) Create(ctx context.Context, request *model.CreatorRequest) error {
	return s.db.WithContext(ctx).Create(request).Error
}

func (s *creatorRequestRepoImpl) PendingOldest(ctx context.Context, limit int) ([]*model.CreatorRequest, error) {
	requests := make([]*model.CreatorRequest, 0, limit)
	err := s.db.WithContext(ctx).
		Where("status = ?", model.RequestStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *creatorRequestRepoImpl) ExistingRequest(ctx context.Context, platform, username, status string) (*model.CreatorRequest, error) {
	var request model.CreatorRequest
	err := s.db.WithContext(ctx).
		Where("platform = ? AND username = ? AND status = ?", platform, username, status).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// UpdateStatus transitions a request, stamping processed_at on terminal
// states.
func (s *creatorRequestRepoImpl) UpdateStatus(ctx context.Context, id uint64, status string, errorMessage *string) error {
	updates := map[string]interface{}{
		"status":        status,
		"error_message": errorMessage,
	}
	if status == model.RequestStatusCompleted || status == model.RequestStatusFailed {
		now := time.Now()
		updates["processed_at"] = &now
	}
	return s.db.WithContext(ctx).
		Model(&model.CreatorRequest{}).
		Where("id = ?", id).
		Updates(updates).Error
}
