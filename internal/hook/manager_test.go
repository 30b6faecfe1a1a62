package hook

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

func writeManifest(t *testing.T, root, dir string, m Manifest) string {
	t.Helper()

	hookDir := filepath.Join(root, dir)
	if err := os.MkdirAll(hookDir, 0755); err != nil {
		t.Fatalf("failed to create hook dir: %v", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(hookDir, ManifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return hookDir
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	hookDir := writeManifest(t, root, "notify", Manifest{
		Name:        "notify",
		Version:     "1.0.0",
		Description: "Desktop notification",
		Executable:  "notify",
		Events:      []string{EventSnapshotSaved},
	})

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	h := hooks[0]
	if h.Manifest.Name != "notify" {
		t.Errorf("expected hook name 'notify', got %q", h.Manifest.Name)
	}
	if h.Path != hookDir {
		t.Errorf("expected path %q, got %q", hookDir, h.Path)
	}
	if h.Executable != filepath.Join(hookDir, "notify") {
		t.Errorf("expected executable inside hook dir, got %q", h.Executable)
	}

	got, err := manager.Get("notify")
	if err != nil || got != h {
		t.Errorf("Get() = %v, %v", got, err)
	}
}

func TestManager_Discover_SkipsInvalid(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "good", Manifest{Name: "good", Executable: "run"})
	writeManifest(t, root, "no-exec", Manifest{Name: "no-exec"})

	bad := filepath.Join(root, "bad")
	os.MkdirAll(bad, 0755)
	os.WriteFile(filepath.Join(bad, ManifestFile), []byte("{nope"), 0644)

	os.MkdirAll(filepath.Join(root, "empty"), 0755)
	os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0644)

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	hooks := manager.List()
	if len(hooks) != 1 || hooks[0].Manifest.Name != "good" {
		t.Errorf("expected only the good hook, got %d", len(hooks))
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	for _, dir := range []string{"", filepath.Join(t.TempDir(), "missing")} {
		manager := NewManager(dir)
		if err := manager.Discover(); err != nil {
			t.Errorf("Discover(%q) error = %v", dir, err)
		}
		if len(manager.List()) != 0 {
			t.Errorf("Discover(%q) found hooks", dir)
		}
	}
}

func TestManager_Get_NotFound(t *testing.T) {
	manager := NewManager(t.TempDir())
	manager.Discover()

	if _, err := manager.Get("missing"); !errors.Is(err, ErrHookNotFound) {
		t.Errorf("Get() error = %v, want ErrHookNotFound", err)
	}
}

func TestManager_For(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "b-saved", Manifest{Name: "b-saved", Executable: "x", Events: []string{EventSnapshotSaved}})
	writeManifest(t, root, "a-all", Manifest{Name: "a-all", Executable: "x"})
	writeManifest(t, root, "other", Manifest{Name: "other", Executable: "x", Events: []string{"session.ended"}})

	manager := NewManager(root)
	manager.Discover()

	hooks := manager.For(EventSnapshotSaved)
	if len(hooks) != 2 {
		t.Fatalf("For() returned %d hooks, want 2", len(hooks))
	}
	if hooks[0].Manifest.Name != "a-all" || hooks[1].Manifest.Name != "b-saved" {
		t.Errorf("For() order = %s, %s", hooks[0].Manifest.Name, hooks[1].Manifest.Name)
	}
}

func TestDispatcher_Notify(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	root := t.TempDir()
	hookDir := writeManifest(t, root, "ok", Manifest{Name: "ok", Executable: "run.sh", Events: []string{EventSnapshotSaved}})
	os.WriteFile(filepath.Join(hookDir, "run.sh"), []byte("#!/bin/sh\ncat > /dev/null\necho '{\"success\":true}'\n"), 0755)
	failDir := writeManifest(t, root, "fail", Manifest{Name: "fail", Executable: "run.sh"})
	os.WriteFile(filepath.Join(failDir, "run.sh"), []byte("#!/bin/sh\nexit 3\n"), 0755)

	manager := NewManager(root)
	manager.Discover()

	d := NewDispatcher(manager, NewExecutor(5000))
	var mu sync.Mutex
	results := map[string]Result{}
	d.OnResult = func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		results[r.Hook] = r
	}

	if n := d.Notify(*savedEvent()); n != 2 {
		t.Fatalf("Notify() started %d hooks, want 2", n)
	}
	d.Wait()

	if r := results["ok"]; r.Err != nil || r.Response == nil || !r.Response.Success {
		t.Errorf("ok hook result = %+v", r)
	}
	if r := results["fail"]; r.Err == nil {
		t.Errorf("fail hook should report an error, got %+v", r)
	}
}

func TestManifest_Handles(t *testing.T) {
	m := Manifest{Events: []string{EventSnapshotSaved}}
	if !m.Handles(EventSnapshotSaved) {
		t.Error("expected manifest to handle snapshot.saved")
	}
	if m.Handles("other") {
		t.Error("manifest should not handle unlisted events")
	}
	if !(Manifest{}).Handles("anything") {
		t.Error("manifest without events should handle everything")
	}
}
