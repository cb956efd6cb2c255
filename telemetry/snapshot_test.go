package telemetry

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:      SnapshotVersion,
		DomainWidth:  3,
		DomainHeight: 1.5,
		KernelRange:  2.0 / 70,
		Step:         1000,
		Particles: []ParticleState{
			{X: 1.2, Y: 0.9, VelX: 0.5, VelY: -0.3},
			{X: 1.25, Y: 0.9},
		},
		Bookmark: &Bookmark{
			Type:        BookmarkSplash,
			Step:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if filepath.Base(path) != "snapshot_1000_splash.json" {
		t.Errorf("unexpected snapshot filename %q", filepath.Base(path))
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}

	if loaded.Step != 1000 {
		t.Errorf("Step = %d, want 1000", loaded.Step)
	}
	if len(loaded.Particles) != 2 {
		t.Fatalf("len(Particles) = %d, want 2", len(loaded.Particles))
	}
	if loaded.Particles[0] != snapshot.Particles[0] {
		t.Errorf("particle 0 = %+v, want %+v", loaded.Particles[0], snapshot.Particles[0])
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != BookmarkSplash {
		t.Errorf("bookmark not restored: %+v", loaded.Bookmark)
	}
}

func TestSnapshotFilenameWithoutBookmark(t *testing.T) {
	path, err := SaveSnapshot(&Snapshot{Version: SnapshotVersion, Step: 7}, t.TempDir())
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if filepath.Base(path) != "snapshot_7.json" {
		t.Errorf("unexpected snapshot filename %q", filepath.Base(path))
	}
}

func TestLoadSnapshotRejectsOtherVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	data, _ := json.Marshal(Snapshot{Version: SnapshotVersion + 1})
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadSnapshot(path)
	if !errors.Is(err, ErrSnapshotVersion) {
		t.Errorf("LoadSnapshot error = %v, want ErrSnapshotVersion", err)
	}
}
