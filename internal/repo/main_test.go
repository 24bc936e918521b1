package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pkordes/maple-planner/migrations"
	"github.com/pkordes/maple-planner/testutil"
)

// TestMain brings the test database up to the latest schema once for the
// whole package. Without TEST_DATABASE_URL every test skips itself.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(dsn)
	n, err := migrations.Up(context.Background(), db)
	db.Close()
	if err != nil {
		log.Fatalf("repo TestMain: %v", err)
	}
	if n > 0 {
		log.Printf("repo TestMain: applied %d migrations", n)
	}

	os.Exit(m.Run())
}
