package service

import (
	"Milestone/internal/api/dto"
	"Milestone/internal/pkg/minio"
	"Milestone/internal/pkg/util"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
)

type MediaService interface {
	Upload(ctx context.Context, userID uint64, fileName string, contentType string, size int64, reader io.Reader) (*dto.MediaUploadDTO, error)
}

type MediaServiceImpl struct{}

func NewMediaService() MediaService {
	return &MediaServiceImpl{}
}

// Upload 校验类型后以随机对象名上传，避免用户文件名冲突与路径注入
func (s *MediaServiceImpl) Upload(ctx context.Context, userID uint64, fileName string, contentType string, size int64, reader io.Reader) (*dto.MediaUploadDTO, error) {
	safeType := util.GetSafeContentType(contentType)
	if safeType == "" {
		return nil, ErrFileNotSupported
	}

	ext := filepath.Ext(fileName)
	objectName := fmt.Sprintf("chat/%d/%s%s", userID, uuid.NewString(), ext)
	key, err := minio.UploadFile(ctx, objectName, reader, size, safeType)
	if err != nil {
		return nil, err
	}

	return &dto.MediaUploadDTO{
		URL:      minio.GetPublicURL(key),
		Name:     fileName,
		MimeType: safeType,
		Size:     size,
	}, nil
}
