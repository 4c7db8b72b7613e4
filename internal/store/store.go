package store

import (
	"context"
	"errors"
	"fmt"

	"pathscheduler-bot/internal/config"
)

// ErrNotFound is returned by Get when no value exists under the key.
var ErrNotFound = errors.New("store: key not found")

// Store is the key-value collaborator holding quiz scores. Values are
// opaque JSON strings; List returns every value under a key prefix.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// New picks the backend from config: Redis when REDIS_ADDR is set,
// otherwise a process-local in-memory store for development runs.
func New(ctx context.Context, cfg config.Config) (Store, error) {
	if cfg.RedisAddr == "" {
		return NewMemory(), nil
	}
	return NewRedis(ctx, cfg)
}

// ScoreKey is the storage key for one user's attempt at one quiz.
func ScoreKey(quizID, userID string) string {
	return fmt.Sprintf("quiz:%s:user:%s", quizID, userID)
}

// QuizPrefix covers every score stored for one quiz.
func QuizPrefix(quizID string) string {
	return fmt.Sprintf("quiz:%s:user:", quizID)
}
