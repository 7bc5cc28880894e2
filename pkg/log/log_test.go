package log

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"testing"
	"time"

	"ipcrypt-go/pkg/appdir"
)

func TestDBPath(t *testing.T) {
	abs := "/tmp/some/logs.db"
	if got := DBPath(abs); got != abs {
		t.Errorf("DBPath(%q) = %q, want passthrough", abs, got)
	}

	want := path.Join(appdir.AppDir(), "logs.db")
	if got := DBPath("logs.db"); got != want {
		t.Errorf("DBPath(\"logs.db\") = %q, want %q", got, want)
	}
}

// The logger is package-global state, so the database lifecycle is
// exercised as one ordered sequence.
func TestLogDatabase(t *testing.T) {
	dbFile := path.Join(t.TempDir(), "test-logs.db")

	if _, err := GetLastNLogs(5); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("GetLastNLogs before Init: err = %v, want ErrNotInitialized", err)
	}
	if _, err := GetLogsBetween(time.Now().Add(-time.Hour), time.Now(), 10); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("GetLogsBetween before Init: err = %v, want ErrNotInitialized", err)
	}

	if err := Init(dbFile); err != nil {
		t.Fatalf("Init(%q) failed: %v", dbFile, err)
	}
	defer Close()

	if err := Init(dbFile); err == nil {
		t.Fatal("second Init succeeded, want error")
	}

	const total = 5
	for i := 0; i < total; i++ {
		Printf("entry number %d", i)
	}

	t.Run("last n ordering", func(t *testing.T) {
		logs, err := GetLastNLogs(3)
		if err != nil {
			t.Fatalf("GetLastNLogs(3) failed: %v", err)
		}
		if len(logs) != 3 {
			t.Fatalf("GetLastNLogs(3) returned %d entries, want 3", len(logs))
		}
		// Oldest first: entries 2, 3, 4.
		for i, entry := range logs {
			want := fmt.Sprintf("entry number %d", total-3+i)
			if !strings.Contains(entry.LogData, want) {
				t.Errorf("logs[%d] = %q, want it to contain %q", i, entry.LogData, want)
			}
		}
		for i := 1; i < len(logs); i++ {
			if logs[i].ID <= logs[i-1].ID {
				t.Errorf("ids not ascending: logs[%d].ID=%d, logs[%d].ID=%d", i-1, logs[i-1].ID, i, logs[i].ID)
			}
		}
	})

	t.Run("last n limits", func(t *testing.T) {
		logs, err := GetLastNLogs(100)
		if err != nil {
			t.Fatalf("GetLastNLogs(100) failed: %v", err)
		}
		if len(logs) != total {
			t.Errorf("GetLastNLogs(100) returned %d entries, want %d", len(logs), total)
		}
		logs, err = GetLastNLogs(0)
		if err != nil {
			t.Fatalf("GetLastNLogs(0) failed: %v", err)
		}
		if len(logs) != 0 {
			t.Errorf("GetLastNLogs(0) returned %d entries, want 0", len(logs))
		}
	})

	t.Run("between range", func(t *testing.T) {
		logs, err := GetLogsBetween(time.Now().Add(-time.Hour), time.Now().Add(time.Hour), 0)
		if err != nil {
			t.Fatalf("GetLogsBetween failed: %v", err)
		}
		if len(logs) != total {
			t.Fatalf("GetLogsBetween returned %d entries, want %d", len(logs), total)
		}
		for i := 1; i < len(logs); i++ {
			if logs[i].ID <= logs[i-1].ID {
				t.Errorf("ids not ascending: logs[%d].ID=%d, logs[%d].ID=%d", i-1, logs[i-1].ID, i, logs[i].ID)
			}
		}

		logs, err = GetLogsBetween(time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour), 0)
		if err != nil {
			t.Fatalf("GetLogsBetween (past window) failed: %v", err)
		}
		if len(logs) != 0 {
			t.Errorf("GetLogsBetween over a past window returned %d entries, want 0", len(logs))
		}
	})

	t.Run("between limit", func(t *testing.T) {
		logs, err := GetLogsBetween(time.Now().Add(-time.Hour), time.Now().Add(time.Hour), 2)
		if err != nil {
			t.Fatalf("GetLogsBetween failed: %v", err)
		}
		if len(logs) != 2 {
			t.Fatalf("GetLogsBetween with limit 2 returned %d entries", len(logs))
		}
		// Chronological order keeps the oldest entries under a limit.
		if !strings.Contains(logs[0].LogData, "entry number 0") {
			t.Errorf("logs[0] = %q, want the oldest entry", logs[0].LogData)
		}
	})

	t.Run("since", func(t *testing.T) {
		logs, err := GetLogsSince(time.Now().Add(-time.Hour), 0)
		if err != nil {
			t.Fatalf("GetLogsSince failed: %v", err)
		}
		if len(logs) != total {
			t.Errorf("GetLogsSince returned %d entries, want %d", len(logs), total)
		}

		logs, err = GetLogsSince(time.Now().Add(time.Hour), 0)
		if err != nil {
			t.Fatalf("GetLogsSince (future start) failed: %v", err)
		}
		if len(logs) != 0 {
			t.Errorf("GetLogsSince with a future start returned %d entries, want 0", len(logs))
		}
	})

	if err := Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if _, err := GetLastNLogs(5); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("GetLastNLogs after Close: err = %v, want ErrNotInitialized", err)
	}
}
