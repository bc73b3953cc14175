package migrations

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	cielo "github.com/goliatone/go-cielo"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"

	// TablePluginOptions is the option table every dialect must create.
	TablePluginOptions = "plugin_options"

	rootPath = "data/sql/migrations"
)

// Source is the plugin_options schema for one dialect.
type Source struct {
	Dialect string
	Path    string
	FS      fs.FS
	// Steps lists migration names without the .up.sql/.down.sql suffix,
	// in apply order.
	Steps []string
}

// SourceFor resolves the embedded migrations of dialect and checks that
// every step can be rolled back and that the option table is created.
func SourceFor(dialect string) (Source, error) {
	return sourceFrom(cielo.GetMigrationsFS(), dialect)
}

// Register hands the migrations of dialect to register, usually
// persistence.Client.RegisterSQLMigrations.
func Register(dialect string, register func(fs.FS)) (Source, error) {
	if register == nil {
		return Source{}, fmt.Errorf("migrations: register function is required")
	}
	source, err := SourceFor(dialect)
	if err != nil {
		return Source{}, err
	}
	register(source.FS)
	return source, nil
}

func sourceFrom(root fs.FS, dialect string) (Source, error) {
	dialect = strings.ToLower(strings.TrimSpace(dialect))
	path := rootPath
	switch dialect {
	case DialectPostgres:
	case DialectSQLite:
		path = rootPath + "/sqlite"
	default:
		return Source{}, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}

	fsys, err := fs.Sub(root, path)
	if err != nil {
		return Source{}, fmt.Errorf("migrations: resolve %s migrations: %w", dialect, err)
	}
	ups, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return Source{}, fmt.Errorf("migrations: glob %s: %w", path, err)
	}
	if len(ups) == 0 {
		return Source{}, fmt.Errorf("migrations: %s has no *.up.sql files", path)
	}
	sort.Strings(ups)

	source := Source{Dialect: dialect, Path: path, FS: fsys}
	createsTable := false
	for _, up := range ups {
		step := strings.TrimSuffix(up, ".up.sql")
		if _, err := fs.Stat(fsys, step+".down.sql"); err != nil {
			return Source{}, fmt.Errorf("migrations: %s/%s has no down migration: %w", path, step, err)
		}
		content, err := fs.ReadFile(fsys, up)
		if err != nil {
			return Source{}, fmt.Errorf("migrations: read %s/%s: %w", path, up, err)
		}
		if createsOptionTable(string(content)) {
			createsTable = true
		}
		source.Steps = append(source.Steps, step)
	}
	if !createsTable {
		return Source{}, fmt.Errorf("migrations: %s never creates %s", path, TablePluginOptions)
	}
	return source, nil
}

func createsOptionTable(statements string) bool {
	normalized := strings.Join(strings.Fields(strings.ToLower(statements)), " ")
	return strings.Contains(normalized, "create table "+TablePluginOptions) ||
		strings.Contains(normalized, "create table if not exists "+TablePluginOptions)
}
