package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/jobtrack/internal/datefmt"
	"github.com/yoockh/jobtrack/internal/models"
	"github.com/yoockh/jobtrack/internal/repositories/memory"
	"github.com/yoockh/jobtrack/internal/tracker"
	"github.com/yoockh/jobtrack/internal/utils"
)

const testUser = "cli-user"

type harness struct {
	repo *memory.ApplicationRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	prev := datefmt.Now
	datefmt.Now = func() time.Time { return time.Date(2024, time.September, 10, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { datefmt.Now = prev })
	return &harness{repo: memory.NewApplicationRepo()}
}

// run executes one CLI invocation against the shared in-memory store.
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	opts := &options{
		openStore: func(context.Context, *logrus.Logger) (tracker.Store, string, func(), error) {
			return h.repo, testUser, func() {}, nil
		},
	}
	cmd := newRootCommand(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) stored(t *testing.T) []models.JobApplication {
	t.Helper()
	apps, err := h.repo.List(context.Background(), testUser)
	if err != nil {
		t.Fatal(err)
	}
	return apps
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	if _, err := h.run(t, "", "add", "--company", "Acme", "--role", "Engineer"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := h.run(t, "", "add", "--company", "Globex", "--role", "Designer",
		"--date", "2024-08-01", "--status", "interviewing"); err != nil {
		t.Fatalf("add: %v", err)
	}

	apps := h.stored(t)
	if len(apps) != 2 {
		t.Fatalf("stored = %d, want 2", len(apps))
	}
	if apps[0].DateApplied != "10/09/2024" || apps[0].Status != models.StatusWaiting {
		t.Fatalf("defaults not applied: %+v", apps[0])
	}
	if apps[1].DateApplied != "01/08/2024" || apps[1].Status != models.StatusInterviewing {
		t.Fatalf("flags not applied: %+v", apps[1])
	}

	out, err := h.run(t, "", "list", "--search", "ACME")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Acme") || strings.Contains(out, "Globex") {
		t.Fatalf("unexpected list output:\n%s", out)
	}
	if !strings.Contains(out, "1 of 2 applications for "+testUser) {
		t.Fatalf("missing count:\n%s", out)
	}

	out, _ = h.run(t, "", "list", "-s", "nobody")
	if !strings.Contains(out, "No applications match your search.") {
		t.Fatalf("unexpected empty output:\n%s", out)
	}
}

func TestAddRequiresCompany(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "", "add", "--role", "Engineer"); err == nil {
		t.Fatal("expected error")
	}
	if len(h.stored(t)) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestEditAndShow(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "", "add", "--company", "Acme", "--role", "Engineer", "--notes", "referral"); err != nil {
		t.Fatal(err)
	}
	id := h.stored(t)[0].ID

	if _, err := h.run(t, "", "edit", id, "--status", "Offered"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	got := h.stored(t)[0]
	if got.Status != models.StatusOffered || got.Notes != "referral" || got.Company != "Acme" {
		t.Fatalf("edit should only touch status: %+v", got)
	}

	out, err := h.run(t, "", "show", id)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Acme", "Engineer", "Offered", "referral", "10/09/2024"} {
		if !strings.Contains(out, want) {
			t.Fatalf("show output missing %q:\n%s", want, out)
		}
	}

	if _, err := h.run(t, "", "edit", "missing", "--status", "Offered"); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestDeleteConfirmation(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "", "add", "--company", "Acme", "--role", "Engineer"); err != nil {
		t.Fatal(err)
	}
	id := h.stored(t)[0].ID

	out, err := h.run(t, "n\n", "delete", id)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, deletePrompt) || !strings.Contains(out, "Cancelled.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if len(h.stored(t)) != 1 {
		t.Fatal("record should remain")
	}

	if _, err := h.run(t, "y\n", "delete", id); err != nil {
		t.Fatal(err)
	}
	if len(h.stored(t)) != 0 {
		t.Fatal("record should be gone")
	}
}

func TestCVAttachAndSave(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "resume.pdf")
	content := []byte("%PDF-1.4\n% test\n")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := h.run(t, "", "add", "--company", "Acme", "--role", "Engineer", "--cv", src); err != nil {
		t.Fatal(err)
	}
	app := h.stored(t)[0]
	if !app.HasAttachment() || *app.CVFileName != "resume.pdf" {
		t.Fatalf("attachment not stored: %+v", app)
	}
	if !strings.HasPrefix(*app.CVBase64, "data:application/pdf;base64,") {
		t.Fatalf("unexpected data URL prefix: %.40s", *app.CVBase64)
	}

	dst := filepath.Join(dir, "out.pdf")
	if _, err := h.run(t, "", "cv", app.ID, "-o", dst); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("saved content differs")
	}

	if _, err := h.run(t, "", "edit", app.ID, "--remove-cv"); err != nil {
		t.Fatal(err)
	}
	if h.stored(t)[0].HasAttachment() {
		t.Fatal("attachment should be removed")
	}
}

func TestCVTooLarge(t *testing.T) {
	h := newHarness(t)
	src := filepath.Join(t.TempDir(), "big.pdf")
	if err := os.WriteFile(src, make([]byte, 800*1024+1), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := h.run(t, "", "add", "--company", "Acme", "--role", "Engineer", "--cv", src)
	if err == nil {
		t.Fatal("expected error")
	}
	if got := errorText(err); got != "File is too large. For database storage, please choose a file under 800KB." {
		t.Fatalf("message = %q", got)
	}
	if len(h.stored(t)) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestCalendar(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "", "calendar", "--date", "15/09/2024")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out, "\n")
	if lines[0] != "September 2024" {
		t.Fatalf("title = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "  1 ") {
		t.Fatalf("September 2024 starts on a Sunday, got %q", lines[2])
	}
	if !strings.Contains(out, "[15]") || !strings.Contains(out, "*10 ") {
		t.Fatalf("selected or today missing:\n%s", out)
	}

	out, _ = h.run(t, "", "calendar", "--date", "15/12/2024", "--offset", "1")
	if !strings.HasPrefix(out, "January 2025") || strings.Contains(out, "[") {
		t.Fatalf("offset view:\n%s", out)
	}
}

func TestErrorText(t *testing.T) {
	if got := errorText(errors.New("unknown flag: --nope")); got != "unknown flag: --nope" {
		t.Fatalf("plain error = %q", got)
	}
	wrapped := fmt.Errorf("outer: %w", utils.E(utils.CodeUnavailable, "Client.List", "server unreachable", errors.New("dial tcp")))
	if got := errorText(wrapped); got != "server unreachable" {
		t.Fatalf("app error = %q", got)
	}
}

func TestSubjectOf(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u-42"}).
		SignedString([]byte("anything"))
	if err != nil {
		t.Fatal(err)
	}
	if sub, err := subjectOf(tok); err != nil || sub != "u-42" {
		t.Fatalf("subjectOf = %q, %v", sub, err)
	}
	if _, err := subjectOf("not-a-token"); err == nil {
		t.Fatal("expected error")
	}
}
