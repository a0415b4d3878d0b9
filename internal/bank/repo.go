// Package bank is the content store collaborator: it keeps raw authoring
// records and serves their normalized form. The raw record is authoritative;
// normalization happens on write and again on read so that store-side shape
// changes always pass through the normalizer.
package bank

import (
	"context"
	"errors"

	"github.com/brightmark/brightmark-core/internal/question"
)

var ErrNotFound = errors.New("question not found")

type Store interface {
	// Put normalizes and persists a raw authoring record. A missing id is
	// assigned.
	Put(ctx context.Context, raw map[string]any) (question.Question, error)
	Get(ctx context.Context, id string) (question.Question, error)
	List(ctx context.Context, subject string, limit, offset int) ([]question.Question, error)
	Delete(ctx context.Context, id string) error
}
