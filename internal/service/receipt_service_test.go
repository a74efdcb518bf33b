package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/nestfolio/nestfolio-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

type fakeReceiptStorage struct {
	objects   map[string][]byte
	uploads   int
	failAfter int // fail uploads once this many succeeded, 0 disables
}

func newFakeReceiptStorage() *fakeReceiptStorage {
	return &fakeReceiptStorage{objects: make(map[string][]byte)}
}

func (f *fakeReceiptStorage) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if f.failAfter > 0 && f.uploads >= f.failAfter {
		return "", errors.New("storage unavailable")
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(data); err != nil {
		return "", err
	}
	f.objects[objectPath] = buf.Bytes()
	f.uploads++
	return objectPath, nil
}

func (f *fakeReceiptStorage) Delete(ctx context.Context, objectPath string) error {
	delete(f.objects, objectPath)
	return nil
}

func (f *fakeReceiptStorage) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return "https://example.com/" + objectPath + "?signed", nil
}

func receiptPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func newReceiptFixture(t *testing.T) (*ReceiptService, *fakeReceiptStorage, *testutil.MockTransactionRepository) {
	t.Helper()
	store := newFakeReceiptStorage()
	txRepo := testutil.NewMockTransactionRepository()
	txRepo.AddTransaction(&domain.Transaction{
		ID:          1,
		HouseholdID: 10,
		Date:        time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-42.50"),
		Category:    "groceries",
	})
	return NewReceiptService(store, txRepo, nil), store, txRepo
}

func TestAttachReceipt(t *testing.T) {
	t.Run("stores three variants and links the transaction", func(t *testing.T) {
		svc, store, txRepo := newReceiptFixture(t)

		meta, err := svc.Attach(context.Background(), 10, 1, receiptPNG(t, 1200, 900), "receipt.png")
		if err != nil {
			t.Fatalf("Attach() error = %v", err)
		}

		if len(store.objects) != 3 {
			t.Errorf("stored objects = %d, want 3", len(store.objects))
		}
		for _, path := range []string{meta.ThumbnailPath, meta.DisplayPath, meta.OriginalPath} {
			if _, ok := store.objects[path]; !ok {
				t.Errorf("variant %s not stored", path)
			}
			if !strings.HasPrefix(path, "10/receipts/1/") {
				t.Errorf("variant path %s not scoped to household and transaction", path)
			}
		}

		tx, _ := txRepo.GetByID(10, 1)
		if tx.ReceiptID == nil || *tx.ReceiptID != meta.ID {
			t.Errorf("transaction receipt = %v, want %s", tx.ReceiptID, meta.ID)
		}
	})

	t.Run("replacing deletes the previous variants", func(t *testing.T) {
		svc, store, _ := newReceiptFixture(t)

		first, err := svc.Attach(context.Background(), 10, 1, receiptPNG(t, 300, 300), "a.png")
		if err != nil {
			t.Fatalf("first Attach() error = %v", err)
		}
		second, err := svc.Attach(context.Background(), 10, 1, receiptPNG(t, 300, 300), "b.png")
		if err != nil {
			t.Fatalf("second Attach() error = %v", err)
		}

		if len(store.objects) != 3 {
			t.Errorf("stored objects = %d, want 3 after replacement", len(store.objects))
		}
		if _, ok := store.objects[first.ThumbnailPath]; ok {
			t.Error("old thumbnail variant should have been deleted")
		}
		if _, ok := store.objects[second.ThumbnailPath]; !ok {
			t.Error("new thumbnail variant missing")
		}
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		svc, _, _ := newReceiptFixture(t)

		_, err := svc.Attach(context.Background(), 10, 1, make([]byte, MaxReceiptSize+1), "big.png")
		if !errors.Is(err, ErrReceiptTooLarge) {
			t.Errorf("Attach() error = %v, want ErrReceiptTooLarge", err)
		}
	})

	t.Run("rejects unsupported extensions", func(t *testing.T) {
		svc, _, _ := newReceiptFixture(t)

		_, err := svc.Attach(context.Background(), 10, 1, receiptPNG(t, 300, 300), "receipt.pdf")
		if !errors.Is(err, ErrReceiptFormat) {
			t.Errorf("Attach() error = %v, want ErrReceiptFormat", err)
		}
	})

	t.Run("rejects images below minimum dimensions", func(t *testing.T) {
		svc, _, _ := newReceiptFixture(t)

		_, err := svc.Attach(context.Background(), 10, 1, receiptPNG(t, 20, 20), "tiny.png")
		if !errors.Is(err, ErrReceiptTooSmall) {
			t.Errorf("Attach() error = %v, want ErrReceiptTooSmall", err)
		}
	})

	t.Run("rejects undecodable data", func(t *testing.T) {
		svc, _, _ := newReceiptFixture(t)

		_, err := svc.Attach(context.Background(), 10, 1, []byte("not an image"), "fake.png")
		if !errors.Is(err, ErrReceiptData) {
			t.Errorf("Attach() error = %v, want ErrReceiptData", err)
		}
	})

	t.Run("unknown transaction fails", func(t *testing.T) {
		svc, _, _ := newReceiptFixture(t)

		_, err := svc.Attach(context.Background(), 10, 99, receiptPNG(t, 300, 300), "receipt.png")
		if !errors.Is(err, domain.ErrTransactionNotFound) {
			t.Errorf("Attach() error = %v, want ErrTransactionNotFound", err)
		}
	})

	t.Run("partial upload failure cleans up stored variants", func(t *testing.T) {
		svc, store, txRepo := newReceiptFixture(t)
		store.failAfter = 2

		_, err := svc.Attach(context.Background(), 10, 1, receiptPNG(t, 300, 300), "receipt.png")
		if err == nil {
			t.Fatal("Attach() should fail when a variant upload fails")
		}
		if len(store.objects) != 0 {
			t.Errorf("stored objects = %d, want 0 after cleanup", len(store.objects))
		}
		tx, _ := txRepo.GetByID(10, 1)
		if tx.ReceiptID != nil {
			t.Error("transaction should not be linked after a failed upload")
		}
	})

	t.Run("disabled storage fails", func(t *testing.T) {
		svc := NewReceiptService(nil, testutil.NewMockTransactionRepository(), nil)

		_, err := svc.Attach(context.Background(), 10, 1, receiptPNG(t, 300, 300), "receipt.png")
		if !errors.Is(err, ErrReceiptStorageNotConfigured) {
			t.Errorf("Attach() error = %v, want ErrReceiptStorageNotConfigured", err)
		}
	})
}

func TestDetachReceipt(t *testing.T) {
	t.Run("removes variants and unlinks the transaction", func(t *testing.T) {
		svc, store, txRepo := newReceiptFixture(t)

		if _, err := svc.Attach(context.Background(), 10, 1, receiptPNG(t, 300, 300), "receipt.png"); err != nil {
			t.Fatalf("Attach() error = %v", err)
		}
		if err := svc.Detach(context.Background(), 10, 1); err != nil {
			t.Fatalf("Detach() error = %v", err)
		}

		if len(store.objects) != 0 {
			t.Errorf("stored objects = %d, want 0", len(store.objects))
		}
		tx, _ := txRepo.GetByID(10, 1)
		if tx.ReceiptID != nil {
			t.Error("transaction should have no receipt after detach")
		}
	})

	t.Run("no receipt is a no-op", func(t *testing.T) {
		svc, _, _ := newReceiptFixture(t)

		if err := svc.Detach(context.Background(), 10, 1); err != nil {
			t.Errorf("Detach() error = %v, want nil", err)
		}
	})
}

func TestReceiptURLs(t *testing.T) {
	t.Run("presigns every variant", func(t *testing.T) {
		svc, _, _ := newReceiptFixture(t)

		meta, err := svc.Attach(context.Background(), 10, 1, receiptPNG(t, 300, 300), "receipt.png")
		if err != nil {
			t.Fatalf("Attach() error = %v", err)
		}

		urls, err := svc.URLs(context.Background(), 10, 1)
		if err != nil {
			t.Fatalf("URLs() error = %v", err)
		}

		for name, url := range map[string]string{
			"thumbnail": urls.ThumbnailURL,
			"display":   urls.DisplayURL,
			"original":  urls.OriginalURL,
		} {
			if !strings.Contains(url, meta.ID) {
				t.Errorf("%s URL %s does not reference receipt %s", name, url, meta.ID)
			}
			if !strings.HasSuffix(url, "?signed") {
				t.Errorf("%s URL %s is not presigned", name, url)
			}
		}
	})

	t.Run("no receipt fails", func(t *testing.T) {
		svc, _, _ := newReceiptFixture(t)

		_, err := svc.URLs(context.Background(), 10, 1)
		if !errors.Is(err, domain.ErrReceiptNotFound) {
			t.Errorf("URLs() error = %v, want ErrReceiptNotFound", err)
		}
	})
}
