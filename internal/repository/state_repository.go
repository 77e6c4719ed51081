package repository

import (
	"context"
	"errors"
	"vokabel_trainer_backend/internal/model"

	"gorm.io/gorm"
)

// ErrStateNotFound 键不存在
var ErrStateNotFound = errors.New("state not found")

// StateStore 抽象持久化端口：两个键，值为JSON字符串
type StateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// StateRepository 基于MySQL键值表的实现
type StateRepository struct {
	db *gorm.DB
}

func NewStateRepository(db *gorm.DB) *StateRepository {
	return &StateRepository{db: db}
}

func (r *StateRepository) Get(ctx context.Context, key string) (string, error) {
	var row model.StoredState
	err := r.db.WithContext(ctx).First(&row, "`key` = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (r *StateRepository) Set(ctx context.Context, key, value string) error {
	row := model.StoredState{Key: key, Value: value}
	return r.db.WithContext(ctx).Save(&row).Error
}

func (r *StateRepository) Remove(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&model.StoredState{}, "`key` = ?", key).Error
}
