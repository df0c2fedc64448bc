package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	databasepb "cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	"github.com/hashicorp/go-hclog"
	flag "github.com/spf13/pflag"
)

// A tiny migration helper that applies the DDL files in migrations/ to a
// Cloud Spanner database (typically the emulator for local dev).
//
// Usage (emulator):
//
//	export SPANNER_EMULATOR_HOST=localhost:9010
//	go run ./cmd/migrate --database projects/test-project/instances/emulator-instance/databases/test-db
func main() {
	var (
		db      string
		dir     string
		timeout time.Duration
	)
	flag.StringVarP(&db, "database", "d", os.Getenv("SPANNER_DATABASE"), "Spanner database path (env SPANNER_DATABASE)")
	flag.StringVarP(&dir, "migrations", "m", "migrations", "Directory holding *.sql DDL files, applied in name order")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "Overall timeout")
	flag.Parse()

	logger := hclog.New(&hclog.LoggerOptions{Name: "migrate"})

	if db == "" {
		logger.Error("--database is required (e.g. projects/test-project/instances/emulator-instance/databases/test-db)")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	stmts, err := loadDDL(dir)
	if err != nil {
		logger.Error("Unable to read DDL", "dir", dir, "error", err)
		os.Exit(1)
	}
	if len(stmts) == 0 {
		logger.Error("No DDL statements found", "dir", dir)
		os.Exit(1)
	}

	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		logger.Error("Unable to create database admin client", "error", err)
		os.Exit(1)
	}
	defer admin.Close()

	op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
		Database:   db,
		Statements: stmts,
	})
	if err != nil {
		logger.Error("UpdateDatabaseDdl failed", "error", err)
		os.Exit(1)
	}
	if err := op.Wait(ctx); err != nil {
		logger.Error("UpdateDatabaseDdl wait failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Applied DDL", "statements", len(stmts), "database", db)
}

// loadDDL reads every *.sql file in dir in name order.
func loadDDL(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var out []string
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f, err)
		}
		out = append(out, SplitDDL(string(b))...)
	}
	return out, nil
}

// SplitDDL splits a DDL script on semicolons, dropping blank statements
// and "--" comment lines.
func SplitDDL(sql string) []string {
	// Normalize line endings for Windows-authored files.
	sql = strings.ReplaceAll(sql, "\r\n", "\n")

	var kept []string
	for _, line := range strings.Split(sql, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	parts := strings.Split(strings.Join(kept, "\n"), ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
