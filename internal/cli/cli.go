package cli

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redoonetworks/stork"
)

var ErrFolderInvalid = errors.New("migrations folder is invalid")

type (
	CloserFunc func() error

	Config struct {
		DatabaseURL      string
		MigrationsFolder string
		VersionsTable    string
		VersionPrefix    string
		Module           string
	}

	App struct {
		migrator *stork.Migrator
	}
)

func NewFromYaml(path string) (*App, CloserFunc, error) {
	cfg, err := createConfigFromYaml(path)
	if err != nil {
		return nil, nil, err
	}

	return New(cfg)
}

func New(cfg Config) (*App, CloserFunc, error) {
	m, closer, err := createMigrator(cfg)
	if err != nil {
		return nil, nil, err
	}

	return &App{migrator: m}, CloserFunc(closer), nil
}

func (app *App) Up(ctx context.Context, target string) error {
	configurators, err := stork.CreateConfigurators(target)
	if err != nil {
		return err
	}

	if err := app.migrator.Connect(ctx); err != nil {
		return err
	}

	if _, err := app.migrator.Up(ctx, configurators...); err != nil {
		return err
	}

	return nil
}

func (app *App) Down(ctx context.Context, target string) error {
	configurators, err := stork.CreateConfigurators(target)
	if err != nil {
		return err
	}

	if err := app.migrator.Connect(ctx); err != nil {
		return err
	}

	if _, err := app.migrator.Down(ctx, configurators...); err != nil {
		return err
	}

	return nil
}

func (app *App) Version(ctx context.Context) (uint64, error) {
	if err := app.migrator.Connect(ctx); err != nil {
		return 0, err
	}

	return app.migrator.CurrentVersion(ctx)
}
