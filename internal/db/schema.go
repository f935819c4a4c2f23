package db

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Execer is the slice of pgxpool.Pool that schema bootstrap needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// EnsureSchema applies every embedded schema file in name order.
// All statements are IF NOT EXISTS, so it runs on every start without touching data.
func EnsureSchema(ctx context.Context, db Execer) error {
	files, err := schemaFS.ReadDir("schema")
	if err != nil { return err }

	names := make([]string, 0, len(files))
	for _, f := range files {
		if strings.HasSuffix(f.Name(), ".sql") {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		b, err := schemaFS.ReadFile("schema/" + name)
		if err != nil { return err }
		if _, err := db.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}
