// ABOUTME: Tests for data migration between storage backends.
// ABOUTME: Covers a full sqlite-to-sqlite copy and batched destinations.
package storage

import (
	"path/filepath"
	"testing"

	"github.com/harperreed/energy/internal/models"
)

func TestMigrateData(t *testing.T) {
	src := setupTestDB(t)
	g, e := seedExportData(t, src)

	archived := models.NewGoal("Old habit", models.PriorityLow, -5)
	if err := src.CreateGoal(archived); err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	if err := src.ArchiveGoal(archived.ID.String()); err != nil {
		t.Fatalf("ArchiveGoal failed: %v", err)
	}

	dst, err := Open(filepath.Join(t.TempDir(), "dst.db"), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer dst.Close()

	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Goals != 2 || summary.Metrics != 2 || summary.Events != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	gotGoal, err := dst.GetGoal(g.ID.String())
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if gotGoal.Name != g.Name {
		t.Errorf("goal name = %q", gotGoal.Name)
	}

	gotArchived, err := dst.GetGoal(archived.ID.String())
	if err != nil {
		t.Fatalf("GetGoal failed: %v", err)
	}
	if gotArchived.Active {
		t.Error("archived goal became active after migration")
	}

	if _, err := dst.GetEvent(e.ID.String()); err != nil {
		t.Errorf("event not migrated: %v", err)
	}
}

// batchingDB records the batching calls MigrateData makes.
type batchingDB struct {
	*DB
	autoSync []bool
	syncs    int
}

func (b *batchingDB) SetAutoSync(enabled bool) { b.autoSync = append(b.autoSync, enabled) }
func (b *batchingDB) Sync() error {
	b.syncs++
	return nil
}

func TestMigrateDataBatchesDestination(t *testing.T) {
	src := setupTestDB(t)
	seedExportData(t, src)

	dst := &batchingDB{DB: setupTestDB(t)}
	if _, err := MigrateData(src, dst); err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}

	if len(dst.autoSync) != 2 || dst.autoSync[0] || !dst.autoSync[1] {
		t.Errorf("auto-sync calls = %v, want [false true]", dst.autoSync)
	}
	if dst.syncs != 1 {
		t.Errorf("syncs = %d, want 1", dst.syncs)
	}
}
