package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/siswa/internal/shared"
)

// Setup writes config.toml from the embedded template when it is missing and opens the configured
// storage once, which runs the sqlite migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("using existing config", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		}
	}

	config, err := shared.LoadConfigOrDefault(configPath)
	if err != nil {
		return err
	}
	r.config = config
	r.configPath = configPath

	r.logger.Info("initializing storage", "driver", config.Storage.Driver)
	session, err := r.open(ctx)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Storage: %s\n", config.Storage.Driver)
	r.writePlain("Students: %d\n", len(session.Students()))
	return nil
}
