package storage

import (
	"context"
	"fmt"

	"momentlog/internal/config"
	"momentlog/internal/journal"
)

// NewStorageFromConfig creates a Storage implementation based on the storage
// config type. encryptor and decctx apply only to the filesystem backend and
// may be nil.
func NewStorageFromConfig(cfg config.StorageConfig, encryptor journal.Encryptor, decctx journal.DecryptionContext) (journal.Storage, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStorage(), nil
	case "filesystem":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("filesystem storage requires data_dir to be set")
		}
		return NewFileSystemStorage(cfg.DataDir, encryptor, decctx)
	case "sqlite":
		if cfg.DBPath == "" {
			return nil, fmt.Errorf("sqlite storage requires db_path to be set")
		}
		return NewSQLiteStorage(cfg.DBPath)
	case "s3":
		return NewS3Storage(context.Background(), cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
