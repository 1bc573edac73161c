// Package memory is a process-local record store used for development
// (STORE_DRIVER=memory) and tests.
package memory

import (
	"context"
	"sync"

	"github.com/yoockh/jobtrack/internal/models"
	"github.com/yoockh/jobtrack/internal/repositories"
	"github.com/yoockh/jobtrack/internal/utils"
)

type userCollection struct {
	order []string
	docs  map[string]models.JobApplication
}

// ApplicationRepo keeps documents per user in insertion order.
type ApplicationRepo struct {
	mu    sync.RWMutex
	users map[string]*userCollection
}

var _ repositories.ApplicationRepository = (*ApplicationRepo)(nil)

func NewApplicationRepo() *ApplicationRepo {
	return &ApplicationRepo{users: make(map[string]*userCollection)}
}

func (r *ApplicationRepo) List(_ context.Context, userID string) ([]models.JobApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	col, ok := r.users[userID]
	if !ok {
		return []models.JobApplication{}, nil
	}
	out := make([]models.JobApplication, 0, len(col.order))
	for _, id := range col.order {
		out = append(out, col.docs[id].Clone())
	}
	return out, nil
}

func (r *ApplicationRepo) Create(_ context.Context, userID string, app models.JobApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	col, ok := r.users[userID]
	if !ok {
		col = &userCollection{docs: make(map[string]models.JobApplication)}
		r.users[userID] = col
	}
	if _, exists := col.docs[app.ID]; !exists {
		col.order = append(col.order, app.ID)
	}
	col.docs[app.ID] = app.Clone()
	return nil
}

func (r *ApplicationRepo) Update(_ context.Context, userID string, app models.JobApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	col, ok := r.users[userID]
	if !ok {
		return utils.ErrNotFound
	}
	if _, exists := col.docs[app.ID]; !exists {
		return utils.ErrNotFound
	}
	col.docs[app.ID] = app.Clone()
	return nil
}

func (r *ApplicationRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	col, ok := r.users[userID]
	if !ok {
		return nil
	}
	if _, exists := col.docs[id]; !exists {
		return nil
	}
	delete(col.docs, id)
	for i, v := range col.order {
		if v == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	return nil
}
