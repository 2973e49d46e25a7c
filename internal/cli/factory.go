package cli

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/redoonetworks/stork"
	"github.com/xo/dburl"
	"gopkg.in/yaml.v2"
)

type (
	configFile struct {
		Version    string             `yaml:"version"`
		Migrations migrationsFileNode `yaml:"migrations"`
	}

	migrationsFileNode struct {
		LocalFolder   string `yaml:"local_folder"`
		DatabaseURL   string `yaml:"database_url"`
		VersionsTable string `yaml:"versions_table"`
		VersionPrefix string `yaml:"version_prefix"`
		Module        string `yaml:"module"`
	}
)

// dialectOptions maps a dburl driver to the matching store option and,
// where our registered driver name differs from dburl's, rewrites it.
var dialectOptions = map[string]func(db *sql.DB, cfs ...stork.SQLStoreConfigurator) stork.OptionFunc{
	"mysql":   stork.UseMySQL,
	"sqlite3": stork.UseSqlite,
	"pgx":     stork.UsePostgres,
}

var driverAliases = map[string]string{
	"postgres": "pgx",
}

func createConfigFromYaml(path string) (Config, error) {
	var cfg Config

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "could not read stork configuration file")
	}

	var cf configFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return cfg, errors.Wrap(err, "could not parse stork configuration file")
	}

	cfg.DatabaseURL = expandEnv(cf.Migrations.DatabaseURL)
	cfg.MigrationsFolder = expandEnv(cf.Migrations.LocalFolder)
	cfg.VersionsTable = cf.Migrations.VersionsTable
	cfg.VersionPrefix = cf.Migrations.VersionPrefix
	cfg.Module = cf.Migrations.Module

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("database url was not defined")
	}

	if cfg.MigrationsFolder == "" {
		return cfg, errors.New("migrations folder was not defined")
	}

	return cfg, nil
}

// expandEnv resolves %%VAR%% placeholders from the environment.
func expandEnv(v string) string {
	if strings.HasPrefix(v, "%%") && strings.HasSuffix(v, "%%") {
		return os.Getenv(strings.ReplaceAll(v, "%%", ""))
	}

	return v
}

func createMigrator(cfg Config) (*stork.Migrator, stork.CloserFunc, error) {
	u, err := dburl.Parse(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "could not parse database url [%s]", cfg.DatabaseURL)
	}

	driver := u.Driver
	if alias, ok := driverAliases[driver]; ok {
		driver = alias
	}

	storeOption, ok := dialectOptions[driver]
	if !ok {
		return nil, nil, errors.Errorf("unsupported database driver [%s]", driver)
	}

	db, err := sql.Open(driver, u.DSN)
	if err != nil {
		return nil, nil, err
	}

	collection := stork.NewCollection(
		stork.WithModule(cfg.Module),
		stork.WithVersionPrefix(cfg.VersionPrefix),
	)
	if err := collection.AddDirectory(cfg.MigrationsFolder); err != nil {
		return nil, nil, errors.Wrap(ErrFolderInvalid, err.Error())
	}

	var storeConfigurators []stork.SQLStoreConfigurator
	if cfg.VersionsTable != "" {
		storeConfigurators = append(storeConfigurators, stork.WithVersionsTable(cfg.VersionsTable))
	}

	return stork.NewMigrator(
		stork.UseColorLogger(log.New(os.Stdout, "", 0), true, false),
		storeOption(db, storeConfigurators...),
		stork.UseCollection(collection),
	)
}

const configFileStub = `version: 1.0

migrations:
    local_folder: "%%MIGRATIONS_FOLDER%%"
    database_url: "%%DATABASE_URL%%"
    versions_table: "migrations"
    version_prefix: ""
    module: "root"
`

// InitCfg writes a starter configuration file to path.
func InitCfg(path string) error {
	return os.WriteFile(path, []byte(configFileStub), 0644)
}
