package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"chefcode/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// RequiredPrefixes lists the object prefixes the backend writes under.
var RequiredPrefixes = []string{"invoices"}

// StorageReport lists what is missing from the expected bucket layout.
type StorageReport struct {
	BucketExists    bool     `json:"bucket_exists"`
	MissingPrefixes []string `json:"missing_prefixes"`
}

// Healthy reports whether the layout needs no fixing.
func (r *StorageReport) Healthy() bool {
	return r.BucketExists && len(r.MissingPrefixes) == 0
}

// CheckStorage verifies that the bucket and its required prefixes exist.
func CheckStorage(ctx context.Context, client storage.Client, bucket string) (*StorageReport, error) {
	report := &StorageReport{MissingPrefixes: []string{}}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("%w: checking bucket %s: %v", storage.ErrUnavailable, bucket, err)
	}
	report.BucketExists = exists
	if !exists {
		// Without the bucket every prefix is missing too.
		report.MissingPrefixes = append(report.MissingPrefixes, RequiredPrefixes...)
		return report, nil
	}

	for _, prefix := range RequiredPrefixes {
		opts := minio.ListObjectsOptions{
			Prefix:    withSlash(prefix),
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for range client.ListObjects(ctx, bucket, opts) {
			found = true
			break
		}
		if !found {
			report.MissingPrefixes = append(report.MissingPrefixes, prefix)
		}
	}

	return report, nil
}

// FixStorage creates the missing bucket and prefix markers from the report.
func FixStorage(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger, report *StorageReport) error {
	if !report.BucketExists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: creating bucket %s: %v", storage.ErrUnavailable, bucket, err)
		}
		logger.Info("Created missing bucket", zap.String("bucket", bucket))
	}

	for _, prefix := range report.MissingPrefixes {
		key := withSlash(prefix)
		if _, err := client.PutObject(ctx, bucket, key, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{}); err != nil {
			return fmt.Errorf("%w: creating prefix marker %s: %v", storage.ErrUnavailable, key, err)
		}
		logger.Info("Created missing prefix", zap.String("prefix", prefix))
	}
	return nil
}

func withSlash(prefix string) string {
	if strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}
