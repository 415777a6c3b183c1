package app

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"boxoffice/internal/archive"
	"boxoffice/internal/gateway/config"
)

// chooseArchive returns the snapshot store for cfg, or nil when archiving is
// off. The returned close func is never nil.
func chooseArchive(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (archive.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Archive.Backend {
	case config.ArchiveMemory:
		logger.Info().Msg("archive store: in-memory")
		return archive.NewMemoryStore(), noop, nil
	case config.ArchiveFile:
		logger.Info().Str("dir", cfg.Archive.Dir).Msg("archive store: disk")
		return archive.NewDiskStore(cfg.Archive.Dir), noop, nil
	case config.ArchivePostgres:
		db, err := sql.Open("pgx", cfg.Archive.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open db: %w", err)
		}
		logger.Info().Msg("archive store: postgres")
		return archive.NewPostgresStore(db), db.Close, nil
	case config.ArchiveS3:
		art := cfg.Archive.Artifact
		store, err := archive.NewS3Store(archive.S3Config{
			Endpoint:  art.Endpoint,
			Region:    art.Region,
			AccessKey: art.AccessKey,
			SecretKey: art.SecretKey,
			Bucket:    art.Bucket,
			UseSSL:    art.UseSSL,
		})
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize archive s3 store: %w", err)
		}
		logger.Info().Str("bucket", art.Bucket).Str("endpoint", art.Endpoint).Msg("archive store: s3")
		return store, noop, nil
	case config.ArchiveAWS:
		art := cfg.Archive.Artifact
		store, err := archive.NewAWSStore(ctx, art.Bucket, art.Region, "")
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize archive aws store: %w", err)
		}
		logger.Info().Str("bucket", art.Bucket).Str("region", art.Region).Msg("archive store: aws s3")
		return store, noop, nil
	default:
		return nil, noop, nil
	}
}
