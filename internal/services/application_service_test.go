package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobtrack/internal/attachment"
	"github.com/yoockh/jobtrack/internal/models"
	"github.com/yoockh/jobtrack/internal/repositories/memory"
	"github.com/yoockh/jobtrack/internal/utils"
)

type mapCache struct {
	data map[string][]byte
	sets int
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	c.sets++
	c.data[key] = b
	return nil
}

func (c *mapCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type countingRepo struct {
	*memory.ApplicationRepo
	lists int
	fail  error
	// afterRead runs once the store has been read, before List returns
	afterRead func()
}

func (r *countingRepo) List(ctx context.Context, userID string) ([]models.JobApplication, error) {
	r.lists++
	if r.fail != nil {
		return nil, r.fail
	}
	out, err := r.ApplicationRepo.List(ctx, userID)
	if hook := r.afterRead; hook != nil {
		r.afterRead = nil
		hook()
	}
	return out, err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func sample(id string) models.JobApplication {
	return models.JobApplication{ID: id, Company: " Acme ", Role: "Engineer", DateApplied: "02/03/2024"}
}

func TestCreateNormalisesAndDefaultsStatus(t *testing.T) {
	svc := NewApplicationService(memory.NewApplicationRepo(), nil, 0, quietLogger())
	got, err := svc.Create(context.Background(), "u1", sample("a1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Company != "Acme" || got.Status != models.StatusWaiting {
		t.Fatalf("got %+v", got)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewApplicationService(memory.NewApplicationRepo(), nil, 0, quietLogger())
	ctx := context.Background()

	tests := []struct {
		name   string
		userID string
		app    func() models.JobApplication
	}{
		{"missing user", "", func() models.JobApplication { return sample("a") }},
		{"missing id", "u1", func() models.JobApplication { return sample("") }},
		{"bad status", "u1", func() models.JobApplication { a := sample("a"); a.Status = "Applied"; return a }},
		{"missing date", "u1", func() models.JobApplication { a := sample("a"); a.DateApplied = " "; return a }},
		{"oversize cv", "u1", func() models.JobApplication {
			a := sample("a")
			a.SetAttachment("cv.pdf", "data:application/pdf;base64,"+strings.Repeat("A", attachment.MaxEncodedLen()))
			return a
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.userID, tt.app())
			if !utils.IsCode(err, utils.CodeInvalidArgument) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
}

func TestUpdateMissingIsNotFound(t *testing.T) {
	svc := NewApplicationService(memory.NewApplicationRepo(), nil, 0, quietLogger())
	_, err := svc.Update(context.Background(), "u1", sample("nope"))
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListUsesCacheAndWritesInvalidate(t *testing.T) {
	repo := &countingRepo{ApplicationRepo: memory.NewApplicationRepo()}
	c := newMapCache()
	svc := NewApplicationService(repo, c, time.Minute, quietLogger())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", sample("a1")); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		got, err := svc.List(ctx, "u1")
		if err != nil || len(got) != 1 {
			t.Fatalf("List = %v, %v", got, err)
		}
	}
	if repo.lists != 1 {
		t.Fatalf("repo listed %d times, want 1", repo.lists)
	}

	if err := svc.Delete(ctx, "u1", "a1"); err != nil {
		t.Fatal(err)
	}
	got, err := svc.List(ctx, "u1")
	if err != nil || len(got) != 0 {
		t.Fatalf("after delete List = %v, %v", got, err)
	}
	if repo.lists != 2 {
		t.Fatalf("delete did not invalidate the cache")
	}
}

func TestListFailureIsWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &countingRepo{ApplicationRepo: memory.NewApplicationRepo(), fail: boom}
	svc := NewApplicationService(repo, newMapCache(), time.Minute, quietLogger())

	_, err := svc.List(context.Background(), "u1")
	if !errors.Is(err, boom) || !utils.IsCode(err, utils.CodeInternal) {
		t.Fatalf("err = %v", err)
	}
}

func TestListEmptyIsNotNil(t *testing.T) {
	svc := NewApplicationService(memory.NewApplicationRepo(), nil, 0, quietLogger())
	got, err := svc.List(context.Background(), "nobody")
	if err != nil || got == nil {
		t.Fatalf("List = %#v, %v", got, err)
	}
}

func TestListDoesNotCacheAcrossConcurrentWrite(t *testing.T) {
	repo := &countingRepo{ApplicationRepo: memory.NewApplicationRepo()}
	c := newMapCache()
	svc := NewApplicationService(repo, c, time.Minute, quietLogger())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", sample("a1")); err != nil {
		t.Fatal(err)
	}
	repo.afterRead = func() {
		if _, err := svc.Create(ctx, "u1", sample("a2")); err != nil {
			t.Errorf("Create during list: %v", err)
		}
	}

	stale, err := svc.List(ctx, "u1")
	if err != nil || len(stale) != 1 {
		t.Fatalf("List = %v, %v", stale, err)
	}
	if _, ok := c.data["applications:u1"]; ok {
		t.Fatal("a read that overlapped a write must not fill the cache")
	}

	fresh, err := svc.List(ctx, "u1")
	if err != nil || len(fresh) != 2 {
		t.Fatalf("List after write = %v, %v", fresh, err)
	}
	if _, ok := c.data["applications:u1"]; !ok {
		t.Fatal("a clean read should fill the cache")
	}
}
