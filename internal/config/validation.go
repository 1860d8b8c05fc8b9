package config

import (
	"fmt"
	"net/url"
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// PostgreSQL configuration
	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidPostgresDBName)
	}

	// Feed configuration
	if c.FeedBaseURL == "" {
		return fmt.Errorf("%w: feed_base_url cannot be empty", ErrInvalidFeedBaseURL)
	}
	parsed, err := url.Parse(c.FeedBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %q is not an absolute URL", ErrInvalidFeedBaseURL, c.FeedBaseURL)
	}
	if c.FeedPageSize < 1 || c.FeedPageSize > 1000 {
		return fmt.Errorf("%w: must be between 1 and 1000, got %d", ErrInvalidFeedPageSize, c.FeedPageSize)
	}

	// Knowledge configuration
	if c.EmbedderModelPath == "" {
		return fmt.Errorf("%w: embedder_model_path cannot be empty", ErrInvalidModelPath)
	}
	if c.ChunkDelimiter == "" {
		return fmt.Errorf("%w: chunk_delimiter cannot be empty", ErrInvalidChunkDelimiter)
	}
	if c.ChunkSize < 1 || c.ChunkSize > 100000 {
		return fmt.Errorf("%w: must be between 1 and 100,000, got %d", ErrInvalidChunkSize, c.ChunkSize)
	}
	if c.TopK < 1 || c.TopK > 50 {
		return fmt.Errorf("%w: must be between 1 and 50, got %d", ErrInvalidTopK, c.TopK)
	}

	return nil
}
