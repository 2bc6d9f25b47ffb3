package data

import (
	"context"
	"fmt"

	"github.com/memebin/memebin/internal/conf"
	memedata "github.com/memebin/memebin/internal/meme/data"
	"github.com/memebin/memebin/internal/pkg/database"
	"github.com/memebin/memebin/internal/pkg/logger"
	"github.com/memebin/memebin/internal/pkg/minio"
)

// Data holds the shared backing-store clients
type Data struct {
	DB          *database.DB
	MinIOClient *minio.Client
}

// NewData connects to PostgreSQL and MinIO and prepares both stores
func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	db, err := database.New(&config.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := db.AutoMigrate(&memedata.MemePO{}); err != nil {
		db.Close()
		return nil, nil, err
	}

	minioClient, err := minio.NewClient(&config.MinIO, log.Logger)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to init minio: %w", err)
	}

	if err := minioClient.EnsureBucket(context.Background()); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ensure bucket: %w", err)
	}

	cleanup := func() {
		log.Info("cleaning up data resources")
		db.Close()
	}

	return &Data{
		DB:          db,
		MinIOClient: minioClient,
	}, cleanup, nil
}
