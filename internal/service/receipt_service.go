package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/repository/storage"
	"github.com/nestfolio/nestfolio-backend/internal/websocket"
	"github.com/rs/zerolog/log"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth  = 50
	MinReceiptHeight = 50
	ThumbnailWidth   = 200
	DisplayWidth     = 800
	JPEGQuality      = 85

	receiptURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge             = errors.New("file too large. Maximum size is 5MB")
	ErrReceiptFormat               = errors.New("invalid format. Supported: JPEG, PNG")
	ErrReceiptTooSmall             = errors.New("image too small. Minimum 50x50 pixels")
	ErrReceiptData                 = errors.New("invalid image data")
	ErrReceiptStorageNotConfigured = errors.New("receipt storage not configured")
)

// AllowedReceiptExtensions maps extensions to content types
var AllowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

var receiptVariants = []string{"thumb", "display", "original"}

// ReceiptMetadata holds the object paths of a stored receipt's variants
type ReceiptMetadata struct {
	ID            string `json:"id"`
	ThumbnailPath string `json:"thumbnailPath"`
	DisplayPath   string `json:"displayPath"`
	OriginalPath  string `json:"originalPath"`
}

// ReceiptURLs holds presigned URLs for a receipt's variants
type ReceiptURLs struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// ReceiptService processes receipt images and attaches them to
// transactions. Variants are stored as private objects; clients get
// short-lived presigned URLs.
type ReceiptService struct {
	storage         storage.ReceiptRepository
	transactionRepo domain.TransactionRepository
	publisher       websocket.EventPublisher
}

// NewReceiptService creates a new ReceiptService. A nil storage
// repository disables receipt handling.
func NewReceiptService(storage storage.ReceiptRepository, transactionRepo domain.TransactionRepository, publisher websocket.EventPublisher) *ReceiptService {
	if publisher == nil {
		publisher = &websocket.NoOpPublisher{}
	}
	return &ReceiptService{
		storage:         storage,
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// IsEnabled indicates whether uploads/deletes are supported
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the receipt image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedReceiptExtensions[ext]; !ok {
		return nil, ErrReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

// Attach validates a receipt image, stores resized variants, and links
// the receipt to the transaction. An existing receipt is replaced.
func (s *ReceiptService) Attach(ctx context.Context, householdID int32, transactionID int32, data []byte, filename string) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	transaction, err := s.transactionRepo.GetByID(householdID, transactionID)
	if err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	receiptID := uuid.New().String()

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"display", DisplayWidth},
		{"original", 0}, // 0 keeps the original size
	}

	paths := make(map[string]string)

	for _, variant := range variants {
		var processed image.Image
		if variant.maxWidth > 0 && img.Bounds().Dx() > variant.maxWidth {
			processed = imaging.Resize(img, variant.maxWidth, 0, imaging.Lanczos)
		} else {
			processed = img
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, processed, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
			return nil, fmt.Errorf("failed to encode image: %w", err)
		}

		objectPath := s.variantPath(householdID, transactionID, receiptID, variant.name)

		path, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len()))
		if err != nil {
			s.cleanupVariants(ctx, paths)
			return nil, fmt.Errorf("failed to upload %s variant: %w", variant.name, err)
		}

		paths[variant.name] = path
	}

	// Replace any previous receipt once the new one is fully stored
	if transaction.ReceiptID != nil {
		s.deleteVariants(ctx, householdID, transactionID, *transaction.ReceiptID)
	}

	updated, err := s.transactionRepo.SetReceipt(householdID, transactionID, &receiptID)
	if err != nil {
		s.cleanupVariants(ctx, paths)
		return nil, err
	}

	s.publisher.Publish(householdID, websocket.TransactionUpdated(updated))

	return &ReceiptMetadata{
		ID:            receiptID,
		ThumbnailPath: paths["thumb"],
		DisplayPath:   paths["display"],
		OriginalPath:  paths["original"],
	}, nil
}

// Detach removes a transaction's receipt and its stored variants
func (s *ReceiptService) Detach(ctx context.Context, householdID int32, transactionID int32) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageNotConfigured
	}

	transaction, err := s.transactionRepo.GetByID(householdID, transactionID)
	if err != nil {
		return err
	}
	if transaction.ReceiptID == nil {
		return nil
	}

	s.deleteVariants(ctx, householdID, transactionID, *transaction.ReceiptID)

	updated, err := s.transactionRepo.SetReceipt(householdID, transactionID, nil)
	if err != nil {
		return err
	}

	s.publisher.Publish(householdID, websocket.TransactionUpdated(updated))
	return nil
}

// URLs generates presigned URLs for a transaction's receipt variants
func (s *ReceiptService) URLs(ctx context.Context, householdID int32, transactionID int32) (*ReceiptURLs, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageNotConfigured
	}

	transaction, err := s.transactionRepo.GetByID(householdID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.ReceiptID == nil {
		return nil, domain.ErrReceiptNotFound
	}

	urls := make(map[string]string, len(receiptVariants))
	for _, variant := range receiptVariants {
		objectPath := s.variantPath(householdID, transactionID, *transaction.ReceiptID, variant)
		url, err := s.storage.GeneratePresignedURL(ctx, objectPath, receiptURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("failed to presign %s variant: %w", variant, err)
		}
		urls[variant] = url
	}

	return &ReceiptURLs{
		ThumbnailURL: urls["thumb"],
		DisplayURL:   urls["display"],
		OriginalURL:  urls["original"],
	}, nil
}

// variantPath builds the object path for one stored variant
func (s *ReceiptService) variantPath(householdID int32, transactionID int32, receiptID, variant string) string {
	return fmt.Sprintf("%d/receipts/%d/%s_%s.jpg", householdID, transactionID, receiptID, variant)
}

// cleanupVariants removes variants uploaded during a failed operation
func (s *ReceiptService) cleanupVariants(ctx context.Context, paths map[string]string) {
	for _, path := range paths {
		if err := s.storage.Delete(ctx, path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to clean up receipt variant")
		}
	}
}

// deleteVariants removes all stored variants of a receipt, best effort
func (s *ReceiptService) deleteVariants(ctx context.Context, householdID int32, transactionID int32, receiptID string) {
	for _, variant := range receiptVariants {
		objectPath := s.variantPath(householdID, transactionID, receiptID, variant)
		if err := s.storage.Delete(ctx, objectPath); err != nil {
			log.Warn().Err(err).Str("path", objectPath).Msg("Failed to delete receipt variant")
		}
	}
}
