package services

import (
	"context"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"claim-system/internal/dto"
	"claim-system/internal/repositories"
	"claim-system/pkg/filestorage"
)

// AttachmentServiceInterface - снимки заказа. Снаружи заказ адресуется номером,
// на диске папка называется по id.
type AttachmentServiceInterface interface {
	SaveImage(ctx context.Context, orderNumber string, image io.Reader) (*dto.SavedImageDTO, error)
	ListImages(ctx context.Context, orderNumber string) ([]string, error)
	ImagePath(ctx context.Context, orderNumber, filename string) (string, error)
	FolderPath(ctx context.Context, orderNumber string) (string, error)
	OpenImage(ctx context.Context, orderNumber, filename string) (string, error)
	OpenFolder(ctx context.Context, orderNumber string) (string, error)
}

type AttachmentService struct {
	orderRepo repositories.OrderRepositoryInterface
	images    *filestorage.ImageStorage
	opener    filestorage.Opener
	logger    *zap.Logger
}

func NewAttachmentService(
	orderRepo repositories.OrderRepositoryInterface,
	images *filestorage.ImageStorage,
	opener filestorage.Opener,
	logger *zap.Logger,
) AttachmentServiceInterface {
	return &AttachmentService{
		orderRepo: orderRepo,
		images:    images,
		opener:    opener,
		logger:    logger,
	}
}

func (s *AttachmentService) orderID(ctx context.Context, orderNumber string) (uint64, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (s *AttachmentService) SaveImage(ctx context.Context, orderNumber string, image io.Reader) (*dto.SavedImageDTO, error) {
	id, err := s.orderID(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	name, err := s.images.Save(id, image)
	if err != nil {
		s.logger.Error("Не удалось сохранить снимок", zap.String("orderNumber", orderNumber), zap.Error(err))
		return nil, err
	}
	dir, err := s.images.Dir(id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Снимок сохранён", zap.String("orderNumber", orderNumber), zap.String("file", name))
	return &dto.SavedImageDTO{Filename: name, Path: filepath.Join(dir, name)}, nil
}

func (s *AttachmentService) ListImages(ctx context.Context, orderNumber string) ([]string, error) {
	id, err := s.orderID(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	return s.images.List(id)
}

func (s *AttachmentService) ImagePath(ctx context.Context, orderNumber, filename string) (string, error) {
	id, err := s.orderID(ctx, orderNumber)
	if err != nil {
		return "", err
	}
	return s.images.Path(id, filename)
}

func (s *AttachmentService) FolderPath(ctx context.Context, orderNumber string) (string, error) {
	id, err := s.orderID(ctx, orderNumber)
	if err != nil {
		return "", err
	}
	return s.images.Dir(id)
}

func (s *AttachmentService) OpenImage(ctx context.Context, orderNumber, filename string) (string, error) {
	path, err := s.ImagePath(ctx, orderNumber, filename)
	if err != nil {
		return "", err
	}
	return path, s.opener.Open(path)
}

func (s *AttachmentService) OpenFolder(ctx context.Context, orderNumber string) (string, error) {
	path, err := s.FolderPath(ctx, orderNumber)
	if err != nil {
		return "", err
	}
	return path, s.opener.Open(path)
}
