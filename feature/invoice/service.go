package invoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chefcode/core/ai"
	"chefcode/core/reconcile"
	"chefcode/core/storage"
	"chefcode/core/utils"
	"chefcode/feature/inventory"
	invmodels "chefcode/feature/inventory/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StoragePrefix is where invoice scans live inside the bucket.
const StoragePrefix = "invoices/"

// allowedTypes whitelists upload content types and fixes the stored
// extension per type.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

const extractPrompt = `You are a multilingual assistant extracting structured data from a restaurant supplier invoice.
Field names stay in English; values keep the language of the document.
Respond with ONLY a JSON object, no markdown fences, no prose around it:
{
  "supplier": "supplier name",
  "date": "invoice date as YYYY-MM-DD",
  "items": [
    {
      "name": "line item description",
      "quantity": 1,
      "unit": "KG",
      "price": 7.20,
      "category": "one of Meat, Vegetables, Fruits, Dairy, Grains, Beverages, Spices, Oils, Other",
      "lot_number": "lot or batch number, empty when absent",
      "expiry_date": "YYYY-MM-DD, empty when absent"
    }
  ]
}
Keep items in the order they appear on the invoice. Numbers use "." as the decimal separator.
Read the table columns carefully; when the quantity column is unreadable, derive the quantity
from the line total divided by the unit price. "price" is the unit price, not the line total.`

// UploadResponse is the extraction result for one stored scan.
type UploadResponse struct {
	Supplier   string                      `json:"supplier"`
	Date       string                      `json:"date"`
	Items      []invmodels.InventoryRecord `json:"items"`
	StorageKey string                      `json:"storage_key"`
}

// ImportRequest carries reviewed line items into the inventory.
type ImportRequest struct {
	Items []invmodels.InventoryRecord `json:"items"`
}

// ImportResponse reports the merge outcome per line item.
type ImportResponse struct {
	Results []reconcile.ItemResult `json:"results"`
	Summary reconcile.Summary      `json:"summary"`
}

// Service stores invoice scans and turns them into inventory stock.
type Service struct {
	db       *gorm.DB
	storage  storage.Client
	bucket   string
	ai       ai.Client
	adapter  *inventory.Adapter
	logger   *zap.Logger
	onChange func()
}

// NewService creates a new invoice service. onChange runs after a
// successful import, before the response is returned.
func NewService(db *gorm.DB, storageClient storage.Client, bucket string, aiClient ai.Client, logger *zap.Logger, onChange func()) *Service {
	return &Service{
		db:       db,
		storage:  storageClient,
		bucket:   bucket,
		ai:       aiClient,
		adapter:  inventory.NewAdapter(),
		logger:   logger,
		onChange: onChange,
	}
}

// Upload stores one scan and extracts its line items with the vision model.
// The scan stays stored even when extraction fails, so it can be retried.
func (s *Service) Upload(ctx context.Context, filename, contentType string, data []byte) (*UploadResponse, error) {
	ext, ok := allowedTypes[normalizeContentType(contentType)]
	if !ok {
		return nil, reconcile.NewValidationError("file must be a jpeg, png, webp or pdf")
	}
	if len(data) == 0 {
		return nil, reconcile.NewValidationError("file is empty")
	}
	if !s.ai.Available() {
		return nil, fmt.Errorf("invoice extraction: %w", ai.ErrUnavailable)
	}

	key := StoragePrefix + uuid.NewString() + ext
	_, err := s.storage.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: storing scan: %v", storage.ErrUnavailable, err)
	}
	s.logger.Info("stored invoice scan",
		zap.String("key", key),
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
	)

	out, err := s.ai.GenerateFromFile(ctx, extractPrompt, "Extract the structured invoice data.", data, contentType)
	if err != nil {
		return nil, fmt.Errorf("invoice extraction failed: %w", err)
	}

	resp, err := parseExtraction(out)
	if err != nil {
		s.logger.Warn("invoice extraction returned unparseable output", zap.String("key", key))
		return nil, err
	}
	resp.StorageKey = key
	return resp, nil
}

// Import merges reviewed line items into the inventory: one plan, one
// transaction, quantities accumulating into existing rows.
func (s *Service) Import(ctx context.Context, req *ImportRequest) (*ImportResponse, error) {
	if len(req.Items) == 0 {
		return nil, reconcile.NewValidationError("items are required")
	}

	records := make([]reconcile.Record, len(req.Items))
	for i := range req.Items {
		records[i] = &req.Items[i]
	}

	var results []reconcile.ItemResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := reconcile.BuildPlan(ctx, tx, s.adapter, records)
		if err != nil {
			return err
		}
		if err := plan.Apply(ctx, tx); err != nil {
			return err
		}
		results = append(results, plan.Results...)
		return nil
	})
	if err != nil {
		return nil, &reconcile.TransactionError{Err: err}
	}

	s.changed()
	return &ImportResponse{Results: results, Summary: reconcile.Summarize(results)}, nil
}

// Delete removes a stored scan. Key is the object name under the invoices/
// prefix, with or without the prefix itself.
func (s *Service) Delete(ctx context.Context, key string) error {
	key = strings.TrimPrefix(strings.TrimSpace(key), StoragePrefix)
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "..") {
		return reconcile.NewValidationError("key is not a stored invoice")
	}
	if err := s.storage.RemoveObject(ctx, s.bucket, StoragePrefix+key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: removing scan: %v", storage.ErrUnavailable, err)
	}
	return nil
}

func (s *Service) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// parseExtraction reads the model output tolerantly: scalars come back
// quoted or bare, and the supplier occasionally arrives as an object.
func parseExtraction(out string) (*UploadResponse, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(ai.ExtractJSON(out)), &fields); err != nil {
		return nil, fmt.Errorf("model returned no usable JSON: %w", err)
	}

	resp := &UploadResponse{
		Supplier: strings.TrimSpace(utils.ToString(fields["supplier"])),
		Date:     strings.TrimSpace(utils.ToString(fields["date"])),
		Items:    []invmodels.InventoryRecord{},
	}
	if nested, ok := fields["supplier"].(map[string]any); ok {
		resp.Supplier = strings.TrimSpace(utils.ToString(nested["name"]))
	}

	rawItems, _ := fields["items"].([]any)
	for _, raw := range rawItems {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		rec := invmodels.InventoryRecord{
			Name:       strings.TrimSpace(utils.ToString(item["name"])),
			Unit:       strings.TrimSpace(utils.ToString(item["unit"])),
			Quantity:   utils.ToFloat(item["quantity"]),
			Category:   strings.TrimSpace(utils.ToString(item["category"])),
			Price:      utils.ToFloat(item["price"]),
			LotNumber:  strings.TrimSpace(utils.ToString(item["lot_number"])),
			ExpiryDate: strings.TrimSpace(utils.ToString(item["expiry_date"])),
		}
		if rec.Name == "" {
			continue
		}
		resp.Items = append(resp.Items, rec)
	}
	return resp, nil
}

func normalizeContentType(contentType string) string {
	contentType, _, _ = strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(contentType))
}
