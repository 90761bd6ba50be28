// Package storage persists generated artifacts and hands back resolvable URLs.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// BlobStore uploads raw artifact bytes under a unique key and returns a
// publicly resolvable URL. The operation is atomic from the caller's
// perspective: it fully succeeds or fails, never partially.
type BlobStore interface {
	Store(ctx context.Context, data []byte, contentType string) (string, error)
}

// NewObjectKey returns a collision-free key for one artifact. Keys are random
// so concurrent uploads never contend.
func NewObjectKey(contentType string) string {
	ext := "bin"
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/png":
		ext = "png"
	case "image/jpeg", "image/jpg":
		ext = "jpg"
	case "image/webp":
		ext = "webp"
	}
	return fmt.Sprintf("images/%s.%s", uuid.NewString(), ext)
}
