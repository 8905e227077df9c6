package catalog_test

import (
	"context"
	"os"
	"testing"

	"gameboxd/internal/catalog"
	"gameboxd/internal/testsupport"
)

func TestRunCollapsesCaseVariants(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	alice := testsupport.NewUser(t, st, "alice")
	bob := testsupport.NewUser(t, st, "bob")
	lower := testsupport.NewGame(t, st, "celeste")
	title := testsupport.NewGame(t, st, "Celeste")
	upper := testsupport.NewGame(t, st, "CELESTE")
	testsupport.NewReview(t, st, alice.ID, lower, "9")
	testsupport.NewReview(t, st, alice.ID, title, "8")
	testsupport.NewReview(t, st, bob.ID, upper, "7")

	job, err := catalog.NewJob(st, nil)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	ctx := context.Background()
	report, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.GamesMerged != 2 || report.ReviewsReassigned != 1 || report.ReviewsDeleted != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	games, err := st.ListGames(ctx)
	if err != nil {
		t.Fatalf("ListGames failed: %v", err)
	}
	if len(games) != 1 || games[0].Name != "celeste" {
		t.Fatalf("expected single celeste row, got %#v", games)
	}

	info, err := os.Stat(report.BackupPath)
	if err != nil {
		t.Fatalf("expected backup at %s: %v", report.BackupPath, err)
	}
	if info.Size() == 0 {
		t.Fatal("expected non-empty backup")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	user := testsupport.NewUser(t, st, "alice")
	lower := testsupport.NewGame(t, st, "celeste")
	testsupport.NewGame(t, st, "Celeste")
	testsupport.NewReview(t, st, user.ID, lower, "9")

	job, err := catalog.NewJob(st, nil)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	ctx := context.Background()
	if _, err := job.Run(ctx); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	report, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if report.Changes() != 0 {
		t.Fatalf("expected no changes on rerun, got %+v", report)
	}
}

func TestBackupPathsDoNotCollide(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	job, err := catalog.NewJob(st, nil)
	if err != nil {
		t.Fatalf("NewJob failed: %v", err)
	}

	ctx := context.Background()
	first, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	second, err := job.Run(ctx)
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if first.BackupPath == second.BackupPath {
		t.Fatalf("expected distinct backup paths, both %s", first.BackupPath)
	}
}
