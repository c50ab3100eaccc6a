package knowledge

import (
	"context"
	"fmt"
)

var (
	// EmbedderInstance Embedder单例实例
	EmbedderInstance *Embedder

	// StoreInstance Store单例实例
	StoreInstance *Store
)

func Init(ctx context.Context) error {
	embedder, err := NewEmbedder()
	if err != nil {
		return fmt.Errorf("failed to create embedder: %v", err)
	}

	store, err := NewStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to create vector store: %v", err)
	}

	EmbedderInstance = embedder
	StoreInstance = store
	return nil
}
