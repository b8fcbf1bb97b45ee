package integrity

import (
	"context"

	"chefcode/core/storage"
	"chefcode/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	db     *gorm.DB
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(db *gorm.DB, client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// CheckStorage reports the missing pieces of the bucket layout.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket)
}

// FixStorage creates whatever the report marked missing.
func (s *Service) FixStorage(ctx context.Context, report *checks.StorageReport) error {
	return checks.FixStorage(ctx, s.client, s.bucket, s.logger, report)
}

// CheckDatabase verifies the required tables exist and reports their size.
func (s *Service) CheckDatabase() (*checks.DatabaseReport, error) {
	return checks.CheckDatabase(s.db)
}
