package services

import (
	"context"
	"io"

	"resep/internal/repositories"
)

// AssetStore accepts and releases image blobs referenced by recipes.
// Upload returns the stored object's reference (a URL); Delete
// releases a previously returned reference.
type AssetStore interface {
	Upload(ctx context.Context, key string, content io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// EventPublisher publishes domain events for interested consumers.
type EventPublisher interface {
	PublishRecipeEvent(routingKey string, body []byte) error
}

// ShoppingListRenderer turns the ordered aggregation rows into a
// downloadable document. The core has no opinion on the format.
type ShoppingListRenderer interface {
	Render(rows []repositories.ShoppingListRow) ([]byte, error)
}
