package sheetdb

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "sheets.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMissingSheetReadsEmpty(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	exists, err := db.SheetExists(ctx, "2026")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatal("sheet should not exist yet")
	}

	rows, err := db.ReadAll(ctx, "2026")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestEnsureSheetIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.EnsureSheet(ctx, "2026"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := db.EnsureSheet(ctx, "2026"); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	exists, err := db.SheetExists(ctx, "2026")
	if err != nil || !exists {
		t.Fatalf("exists=%v err=%v", exists, err)
	}
}

func TestAppendAndReadBackInOrder(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.EnsureSheet(ctx, "2026"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	want := [][]string{
		{"ID", "Title"},
		{"1", "first"},
		{"2", "second"},
	}
	for _, row := range want {
		if err := db.AppendRow(ctx, "2026", row); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	n, err := db.RowCount(ctx, "2026")
	if err != nil || n != 3 {
		t.Fatalf("count=%d err=%v", n, err)
	}

	got, err := db.ReadAll(ctx, "2026")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("row %d: got %v, want %v", i, got[i], want[i])
			}
		}
	}
}

func TestSheetsAreIsolated(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_ = db.EnsureSheet(ctx, "2025")
	_ = db.EnsureSheet(ctx, "2026")
	if err := db.AppendRow(ctx, "2025", []string{"only-2025"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	rows, err := db.ReadAll(ctx, "2026")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("2026 should be empty, got %v", rows)
	}
}
