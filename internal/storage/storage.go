package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"jobh_backend/internal/config"
)

// Storage хранит байты и отдает непрозрачную ссылку на них
type Storage interface {
	// Save кладет файл по ключу
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Delete удаляет файл; отсутствие файла ошибкой не считается
	Delete(ctx context.Context, path string) error

	// URL - публичный адрес файла
	URL(path string) string
}

type Config struct {
	Type      string // local, cloudflare_r2
	BasePath  string
	BaseURL   string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
}

func ConfigFrom(cfg *config.Config) Config {
	return Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	}
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
