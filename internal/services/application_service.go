package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobtrack/internal/attachment"
	"github.com/yoockh/jobtrack/internal/cache"
	"github.com/yoockh/jobtrack/internal/models"
	"github.com/yoockh/jobtrack/internal/repositories"
	"github.com/yoockh/jobtrack/internal/utils"
)

type ApplicationService interface {
	List(ctx context.Context, userID string) ([]models.JobApplication, error)
	Create(ctx context.Context, userID string, app models.JobApplication) (*models.JobApplication, error)
	Update(ctx context.Context, userID string, app models.JobApplication) (*models.JobApplication, error)
	Delete(ctx context.Context, userID, id string) error
}

type applicationService struct {
	apps     repositories.ApplicationRepository
	cache    cache.Cache // nil disables list caching
	cacheTTL time.Duration
	log      *logrus.Logger

	// writes bump a per-user generation; a list read that overlapped a write
	// does not refill the cache
	genMu sync.Mutex
	gen   map[string]uint64
}

func NewApplicationService(apps repositories.ApplicationRepository, c cache.Cache, ttl time.Duration, log *logrus.Logger) ApplicationService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &applicationService{apps: apps, cache: c, cacheTTL: ttl, log: log, gen: make(map[string]uint64)}
}

func (s *applicationService) List(ctx context.Context, userID string) ([]models.JobApplication, error) {
	const op = "ApplicationService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	key := cache.ApplicationsKey(userID)
	before := s.generation(userID)
	if s.cache != nil {
		var cached []models.JobApplication
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("application cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	out, err := s.apps.List(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	if out == nil {
		out = []models.JobApplication{}
	}

	if s.cache != nil && s.generation(userID) == before {
		if err := s.cache.SetJSON(ctx, key, out, s.cacheTTL); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("application cache write failed")
		}
	}
	return out, nil
}

func (s *applicationService) Create(ctx context.Context, userID string, app models.JobApplication) (*models.JobApplication, error) {
	const op = "ApplicationService.Create"

	if err := s.validate(op, userID, &app); err != nil {
		return nil, err
	}
	if err := s.apps.Create(ctx, userID, app); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}
	s.invalidate(ctx, userID)
	return &app, nil
}

func (s *applicationService) Update(ctx context.Context, userID string, app models.JobApplication) (*models.JobApplication, error) {
	const op = "ApplicationService.Update"

	if err := s.validate(op, userID, &app); err != nil {
		return nil, err
	}
	if err := s.apps.Update(ctx, userID, app); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update application", err)
	}
	s.invalidate(ctx, userID)
	return &app, nil
}

func (s *applicationService) Delete(ctx context.Context, userID, id string) error {
	const op = "ApplicationService.Delete"

	if userID == "" || id == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and id are required", nil)
	}
	if err := s.apps.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return utils.E(utils.CodeInternal, op, "failed to delete application", err)
	}
	s.invalidate(ctx, userID)
	return nil
}

// validate checks the record invariants and normalises status and trimming.
func (s *applicationService) validate(op, userID string, app *models.JobApplication) error {
	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	app.Company = strings.TrimSpace(app.Company)
	app.Role = strings.TrimSpace(app.Role)
	app.DateApplied = strings.TrimSpace(app.DateApplied)
	if app.Status == "" {
		app.Status = models.StatusWaiting
	}

	if err := app.Validate(); err != nil {
		return utils.E(utils.CodeInvalidArgument, op, err.Error(), nil)
	}
	if app.CVBase64 != nil && len(*app.CVBase64) > attachment.MaxEncodedLen() {
		return utils.E(utils.CodeInvalidArgument, op, attachment.TooLargeMessage, attachment.ErrTooLarge)
	}
	return nil
}

func (s *applicationService) generation(userID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gen[userID]
}

func (s *applicationService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	s.genMu.Lock()
	s.gen[userID]++
	s.genMu.Unlock()

	if err := s.cache.Del(ctx, cache.ApplicationsKey(userID)); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("application cache invalidation failed")
	}
}
