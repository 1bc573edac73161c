// Package repositories holds the persistence contract shared by the Mongo and
// Postgres record stores.
package repositories

import (
	"context"

	"github.com/yoockh/jobtrack/internal/models"
)

// ApplicationRepository is a per-user collection of application documents keyed by id.
// Create overwrites an existing document with the same id. Update requires the
// document to exist and returns utils.ErrNotFound otherwise.
type ApplicationRepository interface {
	List(ctx context.Context, userID string) ([]models.JobApplication, error)
	Create(ctx context.Context, userID string, app models.JobApplication) error
	Update(ctx context.Context, userID string, app models.JobApplication) error
	Delete(ctx context.Context, userID, id string) error
}
