package service

import (
	"context"
	"net/url"
	"path"
	"time"

	"vokabel_trainer_backend/internal/config"
	"vokabel_trainer_backend/internal/vocab"
	"vokabel_trainer_backend/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 定义词汇配图的存储接口
type StorageProvider interface {
	ImageURL(ctx context.Context, folder, filename string) string
}

// LocalStorageProvider 本地存储实现，图片由本服务静态托管
type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) ImageURL(ctx context.Context, folder, filename string) string {
	return "/images/" + folder + "/" + filename
}

// MinioStorageProvider MinIO存储实现，返回预签名访问地址
type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) ImageURL(ctx context.Context, folder, filename string) string {
	object := path.Join(folder, filename)
	presigned, err := p.Client.PresignedGetObject(ctx, p.Config.MinioBucket, object, 24*time.Hour, url.Values{})
	if err != nil {
		logger.Log.Warn("生成预签名图片地址失败", zap.String("object", object), zap.Error(err))
		return "/" + p.Config.MinioBucket + "/" + object
	}
	return presigned.String()
}

// StorageService 解析词汇配图的访问地址
type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	if cfg.Storage.Type == "minio" {
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err == nil {
			provider = p
		} else {
			logger.Log.Warn("MinIO初始化失败，回退到本地存储", zap.Error(err))
		}
	}

	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &StorageService{Provider: provider}
}

// WordImageURL 按词条类别解析图片地址。类别未知或无配图时返回空串
func (s *StorageService) WordImageURL(ctx context.Context, category, image string) string {
	if image == "" {
		return ""
	}
	folder := vocab.CategoryFolder(category)
	if folder == "" {
		return ""
	}
	return s.Provider.ImageURL(ctx, folder, image)
}
