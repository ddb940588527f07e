package services

import (
	"context"

	"storefront/internal/models"
)

// EventPublisher publishes catalog events. pkg/rabbitmq.Client implements it.
type EventPublisher interface {
	PublishEvent(routingKey string, payload interface{}) error
}

// ImageStore deletes hosted image assets. storage.MinioImageStore implements it.
type ImageStore interface {
	DeleteImage(ctx context.Context, externalID string) error
}

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Owns reports whether the actor may act on a resource owned by ownerID.
func (a Actor) Owns(ownerID string) bool {
	return a.UserID != "" && a.UserID == ownerID
}
