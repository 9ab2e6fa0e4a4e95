package media

import (
	"fmt"

	"momentlog/internal/config"
	"momentlog/internal/journal"
)

// NewVaultFromConfig creates a MediaVault implementation based on the media
// config type.
func NewVaultFromConfig(cfg config.MediaConfig) (journal.MediaVault, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryVault(), nil
	case "filesystem":
		if cfg.MediaDir == "" {
			return nil, fmt.Errorf("filesystem media vault requires media_dir to be set")
		}
		return NewFileSystemVault(cfg.MediaDir)
	default:
		return nil, fmt.Errorf("unknown media vault type: %s", cfg.Type)
	}
}
