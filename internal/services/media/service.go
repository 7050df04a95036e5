package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("media asset not found")
)

const (
	TypeImage = "image"
	TypeVideo = "video"
)

type Asset struct {
	ID         uuid.UUID
	MemorialID uuid.UUID
	Title      *string
	AltText    *string
	Caption    *string
	MediaType  string
	FileKey    string
	SortOrder  int
	CreatedAt  time.Time
}

type AddInput struct {
	MemorialID uuid.UUID
	Title      *string
	AltText    *string
	Caption    *string
	MediaType  *string
	FileName   string
	Base64Data string
}

type ReorderItem struct {
	ID        uuid.UUID
	SortOrder int
}

type Store interface {
	Insert(ctx context.Context, asset Asset) (Asset, error)
	MaxSortOrder(ctx context.Context, memorialID uuid.UUID) (int, error)
	UpdateSortOrders(ctx context.Context, memorialID uuid.UUID, items []ReorderItem) error
	FindOwned(ctx context.Context, ownerID, mediaID uuid.UUID) (Asset, error)
	Delete(ctx context.Context, mediaID uuid.UUID) error
}

type MemorialStore interface {
	Owns(ctx context.Context, ownerID, memorialID uuid.UUID) (bool, error)
}

type ObjectStorage interface {
	Save(ctx context.Context, fileKey string, data []byte, contentType string) error
	Remove(ctx context.Context, fileKey string) error
}

type Service struct {
	store     Store
	memorials MemorialStore
	storage   ObjectStorage
	now       func() time.Time
}

func NewService(store Store, memorials MemorialStore, storage ObjectStorage) *Service {
	return &Service{
		store:     store,
		memorials: memorials,
		storage:   storage,
		now:       time.Now,
	}
}

func (s *Service) Add(ctx context.Context, ownerID uuid.UUID, in AddInput) (Asset, error) {
	if ownerID == uuid.Nil || in.MemorialID == uuid.Nil {
		return Asset{}, ErrValidation
	}
	if strings.TrimSpace(in.FileName) == "" || in.Base64Data == "" {
		return Asset{}, ErrValidation
	}
	if in.Title != nil && len(*in.Title) > 180 {
		return Asset{}, fmt.Errorf("title is too long: %w", ErrValidation)
	}
	if in.AltText != nil && len(*in.AltText) > 255 {
		return Asset{}, fmt.Errorf("alt text is too long: %w", ErrValidation)
	}

	mediaType := TypeImage
	if in.MediaType != nil {
		if *in.MediaType != TypeImage && *in.MediaType != TypeVideo {
			return Asset{}, fmt.Errorf("unknown media type %q: %w", *in.MediaType, ErrValidation)
		}
		mediaType = *in.MediaType
	}

	if err := s.ensureMemorialOwnership(ctx, ownerID, in.MemorialID); err != nil {
		return Asset{}, err
	}

	data, err := base64.StdEncoding.DecodeString(in.Base64Data)
	if err != nil {
		return Asset{}, fmt.Errorf("decode base64 payload: %w", ErrValidation)
	}
	if len(data) == 0 {
		return Asset{}, fmt.Errorf("uploaded data is empty: %w", ErrValidation)
	}

	fileKey := s.buildFileKey(in.MemorialID, in.FileName)
	if err := s.storage.Save(ctx, fileKey, data, contentTypeFor(in.FileName)); err != nil {
		return Asset{}, fmt.Errorf("save object: %w", err)
	}

	maxOrder, err := s.store.MaxSortOrder(ctx, in.MemorialID)
	if err != nil {
		_ = s.storage.Remove(ctx, fileKey)
		return Asset{}, fmt.Errorf("resolve sort order: %w", err)
	}

	asset, err := s.store.Insert(ctx, Asset{
		MemorialID: in.MemorialID,
		Title:      in.Title,
		AltText:    in.AltText,
		Caption:    in.Caption,
		MediaType:  mediaType,
		FileKey:    fileKey,
		SortOrder:  maxOrder + 1,
	})
	if err != nil {
		_ = s.storage.Remove(ctx, fileKey)
		return Asset{}, fmt.Errorf("insert media asset: %w", err)
	}

	return asset, nil
}

func (s *Service) Reorder(ctx context.Context, ownerID, memorialID uuid.UUID, items []ReorderItem) error {
	if ownerID == uuid.Nil || memorialID == uuid.Nil {
		return ErrValidation
	}
	for _, item := range items {
		if item.ID == uuid.Nil {
			return ErrValidation
		}
	}

	if err := s.ensureMemorialOwnership(ctx, ownerID, memorialID); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	if err := s.store.UpdateSortOrders(ctx, memorialID, items); err != nil {
		return fmt.Errorf("update sort orders: %w", err)
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, ownerID, mediaID uuid.UUID) error {
	if ownerID == uuid.Nil || mediaID == uuid.Nil {
		return ErrValidation
	}

	asset, err := s.store.FindOwned(ctx, ownerID, mediaID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find media asset: %w", err)
	}

	if err := s.storage.Remove(ctx, asset.FileKey); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	if err := s.store.Delete(ctx, mediaID); err != nil {
		return fmt.Errorf("delete media asset: %w", err)
	}
	return nil
}

func (s *Service) ensureMemorialOwnership(ctx context.Context, ownerID, memorialID uuid.UUID) error {
	owns, err := s.memorials.Owns(ctx, ownerID, memorialID)
	if err != nil {
		return fmt.Errorf("check memorial ownership: %w", err)
	}
	if !owns {
		return ErrNotFound
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func (s *Service) buildFileKey(memorialID uuid.UUID, fileName string) string {
	safe := unsafeFileChars.ReplaceAllString(fileName, "-")
	safe = strings.Trim(safe, "-.")
	if safe == "" {
		safe = "upload"
	}
	return fmt.Sprintf("memorials/%s/%d-%s", memorialID, s.now().UnixMilli(), safe)
}

func contentTypeFor(fileName string) string {
	if ct := mime.TypeByExtension(path.Ext(fileName)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
