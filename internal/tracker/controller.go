// Package tracker holds the in-session list of a user's applications and keeps
// it in step with the record store.
//
// Every mutation is write-then-reflect: the store call runs first and the
// in-memory list only changes once it has succeeded.
package tracker

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobtrack/internal/models"
	"github.com/yoockh/jobtrack/internal/utils"
)

const (
	LoadFailedMessage   = "Failed to load applications."
	SaveFailedMessage   = "Failed to save application to database."
	DeleteFailedMessage = "Failed to delete application."
)

// Store is the remote per-user collection.
type Store interface {
	List(ctx context.Context, userID string) ([]models.JobApplication, error)
	Create(ctx context.Context, userID string, app models.JobApplication) error
	Update(ctx context.Context, userID string, app models.JobApplication) error
	Delete(ctx context.Context, userID, id string) error
}

type Controller struct {
	store  Store
	userID string
	log    *logrus.Logger
	newID  func() string

	mu      sync.Mutex
	apps    []models.JobApplication
	viewing string // id shown in the detail view, "" when closed
}

func New(store Store, userID string, log *logrus.Logger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		store:  store,
		userID: userID,
		log:    log,
		newID:  uuid.NewString,
	}
}

// UserID is the owner of the list.
func (c *Controller) UserID() string { return c.userID }

func (c *Controller) logFailure(op string, err error, fields logrus.Fields) {
	c.log.WithError(err).WithFields(fields).WithFields(logrus.Fields{
		"op":      op,
		"user_id": c.userID,
	}).Error("store call failed")
}

// Load replaces the list with the store's contents. On failure the list is kept
// as it was; the error is logged and returned for diagnostics only.
func (c *Controller) Load(ctx context.Context) error {
	const op = "Controller.Load"

	apps, err := c.store.List(ctx, c.userID)
	if err != nil {
		c.logFailure(op, err, nil)
		return utils.E(utils.CodeOf(err, utils.CodeUnavailable), op, LoadFailedMessage, err)
	}

	fresh := make([]models.JobApplication, 0, len(apps))
	for _, a := range apps {
		fresh = append(fresh, a.Clone())
	}

	c.mu.Lock()
	c.apps = fresh
	c.mu.Unlock()
	return nil
}

// Create stores a new record and puts it at the front of the list.
func (c *Controller) Create(ctx context.Context, form models.ApplicationForm) (models.JobApplication, error) {
	const op = "Controller.Create"

	if err := form.Validate(); err != nil {
		return models.JobApplication{}, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
	}

	app := form.Apply(models.JobApplication{ID: c.newID()})
	if err := c.store.Create(ctx, c.userID, app); err != nil {
		c.logFailure(op, err, logrus.Fields{"id": app.ID})
		return models.JobApplication{}, utils.E(utils.CodeOf(err, utils.CodeUnavailable), op, SaveFailedMessage, err)
	}

	c.mu.Lock()
	c.apps = append([]models.JobApplication{app.Clone()}, c.apps...)
	c.mu.Unlock()
	return app, nil
}

// Update merges form onto the record with id and replaces it in place.
func (c *Controller) Update(ctx context.Context, id string, form models.ApplicationForm) (models.JobApplication, error) {
	const op = "Controller.Update"

	existing, ok := c.Get(id)
	if !ok {
		return models.JobApplication{}, utils.E(utils.CodeNotFound, op, "application not found", nil)
	}
	if err := form.Validate(); err != nil {
		return models.JobApplication{}, utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
	}

	merged := form.Apply(existing)
	if err := c.store.Update(ctx, c.userID, merged); err != nil {
		c.logFailure(op, err, logrus.Fields{"id": id})
		return models.JobApplication{}, utils.E(utils.CodeOf(err, utils.CodeUnavailable), op, SaveFailedMessage, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.apps[i] = merged.Clone()
	}
	return merged, nil
}

// Delete removes the record from the store and the list, closing the detail
// view if it showed that record.
func (c *Controller) Delete(ctx context.Context, id string) error {
	const op = "Controller.Delete"

	if err := c.store.Delete(ctx, c.userID, id); err != nil {
		c.logFailure(op, err, logrus.Fields{"id": id})
		return utils.E(utils.CodeOf(err, utils.CodeUnavailable), op, DeleteFailedMessage, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.apps[:0]
	for _, a := range c.apps {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	c.apps = kept
	if c.viewing == id {
		c.viewing = ""
	}
	return nil
}

// Search returns the records whose company or role contains term, ignoring case.
// The list itself is not touched.
func (c *Controller) Search(term string) []models.JobApplication {
	needle := strings.ToLower(term)

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.JobApplication, 0, len(c.apps))
	for _, a := range c.apps {
		if strings.Contains(strings.ToLower(a.Company), needle) ||
			strings.Contains(strings.ToLower(a.Role), needle) {
			out = append(out, a.Clone())
		}
	}
	return out
}

// Applications returns a copy of the list in display order.
func (c *Controller) Applications() []models.JobApplication {
	return c.Search("")
}

func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.apps)
}

func (c *Controller) Get(id string) (models.JobApplication, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		return c.apps[i].Clone(), true
	}
	return models.JobApplication{}, false
}

// View opens the detail view on a record.
func (c *Controller) View(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(id) < 0 {
		return utils.E(utils.CodeNotFound, "Controller.View", "application not found", nil)
	}
	c.viewing = id
	return nil
}

// Viewing returns the record in the detail view, if one is open.
func (c *Controller) Viewing() (models.JobApplication, bool) {
	c.mu.Lock()
	id := c.viewing
	c.mu.Unlock()
	if id == "" {
		return models.JobApplication{}, false
	}
	return c.Get(id)
}

func (c *Controller) CloseView() {
	c.mu.Lock()
	c.viewing = ""
	c.mu.Unlock()
}

// indexOf must be called with mu held.
func (c *Controller) indexOf(id string) int {
	for i, a := range c.apps {
		if a.ID == id {
			return i
		}
	}
	return -1
}
