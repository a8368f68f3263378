package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// ThemeShow prints the saved theme.
func (r *Runner) ThemeShow(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", session.Theme())
}

// ThemeToggle flips between light and dark and persists the choice.
func (r *Runner) ThemeToggle(ctx context.Context, cmd *cli.Command) error {
	session, err := r.open(ctx)
	if err != nil {
		return err
	}
	if _, err := session.ToggleTheme(ctx); err != nil {
		return err
	}
	return r.writeNotification(session.Notification())
}
