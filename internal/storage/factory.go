package storage

import (
	"fmt"
	"strings"

	"resumehost/internal/config"
)

// New builds the backend selected by cfg.Driver.
func New(cfg config.StorageConfig, minioCfg config.MinIOConfig) (Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		local, err := NewLocal(cfg.UploadDir)
		if err != nil {
			return nil, err
		}
		return local, nil
	case "minio", "s3":
		remote, err := NewMinIO(minioCfg)
		if err != nil {
			return nil, err
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
