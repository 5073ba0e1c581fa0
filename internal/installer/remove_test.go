package installer

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/utilkit-labs/utilkit/internal/project"
)

func TestRemoveDeletesEmptyCategoryDir(t *testing.T) {
	f := newFixture(t, false)
	f.in.InstallAll(f.reg, f.resolve(t, "C"), f.cfg, Options{})
	domDir := filepath.Join(f.cfg.InstallRoot(), "dom")

	results := f.in.RemoveAll(f.reg, []string{"C"}, f.cfg)
	if results[0].Status != StatusRemoved {
		t.Fatalf("status = %s (err %v)", results[0].Status, results[0].Err)
	}
	if _, err := os.Stat(domDir); !os.IsNotExist(err) {
		t.Errorf("empty category dir should be removed, stat err = %v", err)
	}
	if _, err := os.Stat(f.cfg.InstallRoot()); err != nil {
		t.Errorf("install root must survive: %v", err)
	}
}

func TestRemoveKeepsNonEmptyCategoryDir(t *testing.T) {
	f := newFixture(t, false)
	f.in.InstallAll(f.reg, f.resolve(t, "B"), f.cfg, Options{})

	f.in.RemoveAll(f.reg, []string{"B"}, f.cfg)
	if _, err := os.Stat(filepath.Join(f.cfg.InstallRoot(), "core", "A.js")); err != nil {
		t.Errorf("A.js should remain: %v", err)
	}
}

func TestRemoveAllStatuses(t *testing.T) {
	f := newFixture(t, false)
	f.in.InstallAll(f.reg, f.resolve(t, "A"), f.cfg, Options{})

	results := f.in.RemoveAll(f.reg, []string{"nope", "B", "A", "A"}, f.cfg)
	var got []RemovalStatus
	for _, r := range results {
		got = append(got, r.Status)
	}
	want := []RemovalStatus{StatusNotFound, StatusNotInstalled, StatusRemoved, StatusNotInstalled}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("statuses = %v, want %v", got, want)
	}
}

func TestRemoveFindsOtherModeVariant(t *testing.T) {
	f := newFixture(t, true)
	f.in.InstallAll(f.reg, f.resolve(t, "A"), f.cfg, Options{})

	f.cfg.TypedMode = false
	results := f.in.RemoveAll(f.reg, []string{"A"}, f.cfg)
	if results[0].Status != StatusRemoved {
		t.Fatalf("status = %s, want removed", results[0].Status)
	}
	if filepath.Ext(results[0].Path) != ".ts" {
		t.Errorf("removed %q, want the .ts file", results[0].Path)
	}
}

func TestFindOrphansAfterRemoval(t *testing.T) {
	f := newFixture(t, false)
	lock := project.NewLock()

	res := f.resolve(t, "C")
	RecordInstall(lock, f.reg, res, f.in.InstallAll(f.reg, res, f.cfg, Options{}))
	if !lock.Utilities["C"].Direct || lock.Utilities["B"].Direct {
		t.Fatalf("lock after install = %+v", lock.Utilities)
	}
	if !reflect.DeepEqual(lock.Utilities["A"].RequiredBy, []string{"B"}) {
		t.Errorf("A.RequiredBy = %v, want [B]", lock.Utilities["A"].RequiredBy)
	}
	if orphans := FindOrphans(f.reg, f.cfg, lock); len(orphans) != 0 {
		t.Errorf("orphans before removal = %v, want none", orphans)
	}

	RecordRemoval(lock, f.in.RemoveAll(f.reg, []string{"C"}, f.cfg))
	if _, ok := lock.Utilities["C"]; ok {
		t.Error("C should be dropped from the lock")
	}
	if len(lock.Utilities["B"].RequiredBy) != 0 {
		t.Errorf("B.RequiredBy = %v, want empty", lock.Utilities["B"].RequiredBy)
	}

	if got := FindOrphans(f.reg, f.cfg, lock); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("orphans = %v, want [B]", got)
	}
}

func TestFindOrphansIgnoresUnknownProvenance(t *testing.T) {
	f := newFixture(t, false)
	f.in.InstallAll(f.reg, f.resolve(t, "B"), f.cfg, Options{})
	f.in.RemoveAll(f.reg, []string{"B"}, f.cfg)

	if got := FindOrphans(f.reg, f.cfg, project.NewLock()); len(got) != 0 {
		t.Errorf("orphans = %v, want none without lock entries", got)
	}
}

func TestRecordInstallPromotesDependencyToDirect(t *testing.T) {
	f := newFixture(t, false)
	lock := project.NewLock()

	res := f.resolve(t, "B")
	RecordInstall(lock, f.reg, res, f.in.InstallAll(f.reg, res, f.cfg, Options{}))
	if lock.Utilities["A"].Direct {
		t.Fatal("A should start as a dependency")
	}

	res = f.resolve(t, "A")
	RecordInstall(lock, f.reg, res, f.in.InstallAll(f.reg, res, f.cfg, Options{}))
	if !lock.Utilities["A"].Direct {
		t.Error("explicitly requesting an installed dependency should mark it direct")
	}
}
