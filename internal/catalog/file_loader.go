package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a loader reading catalogue files from the local file system.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string) (*Batch, error) {
	l.logger.Info().Str("file", path).Msg("loading catalogue file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", path, err)
	}
	defer file.Close()

	batch, err := decode(ctx, file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read catalogue file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("categories", len(batch.Categories)).
		Int("products", len(batch.Products)).
		Msg("catalogue file loaded")

	return batch, nil
}
