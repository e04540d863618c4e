package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/kmarsden/maskvote/internal/auth"
	"github.com/kmarsden/maskvote/internal/logger"
)

func testPagesFS() fstest.MapFS {
	return fstest.MapFS{
		"index.html":     {Data: []byte("<html>voter</html>")},
		"admin.html":     {Data: []byte("<html>admin</html>")},
		"projector.html": {Data: []byte("<html>projector</html>")},
	}
}

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write roster file: %v", err)
	}
	return path
}

func TestNew_InitializesApp(t *testing.T) {
	roster := writeRoster(t, `[{"id":"fox","name":"Fox"},{"id":"wolf","name":"Wolf"}]`)

	a, err := New(logger.New(), Config{
		DBPath:     ":memory:",
		RosterPath: roster,
	}, auth.New("pw"), testPagesFS())
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	defer a.Close()

	if a.Hub() == nil {
		t.Error("expected hub to be initialized")
	}
	if a.Router() == nil {
		t.Error("expected router to be initialized")
	}
}

func TestNew_EmptyRosterIsAllowed(t *testing.T) {
	a, err := New(logger.New(), Config{DBPath: ":memory:"}, auth.New("pw"), testPagesFS())
	if err != nil {
		t.Fatalf("expected startup with empty roster to succeed: %v", err)
	}
	a.Close()
}

func TestNew_FailsWithBadRoster(t *testing.T) {
	roster := writeRoster(t, `{not json`)

	_, err := New(logger.New(), Config{
		DBPath:     ":memory:",
		RosterPath: roster,
	}, auth.New("pw"), testPagesFS())
	if err == nil {
		t.Error("expected error for invalid roster file")
	}
}

func TestNew_FailsWithBadDBPath(t *testing.T) {
	_, err := New(logger.New(), Config{
		DBPath: filepath.Join(t.TempDir(), "missing", "nested", "app.db"),
	}, auth.New("pw"), testPagesFS())
	if err == nil {
		t.Error("expected error for unusable database path")
	}
}

func TestApp_Router_ServesRequests(t *testing.T) {
	roster := writeRoster(t, `[{"id":"fox","name":"Fox"}]`)

	a, err := New(logger.New(), Config{
		DBPath:     ":memory:",
		RosterPath: roster,
	}, auth.New("pw"), testPagesFS())
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	defer a.Close()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 from health endpoint, got %d", rec.Code)
	}
}
