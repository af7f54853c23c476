package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func refreshCommand() *cli.Command {
	return &cli.Command{
		Name:   "refresh",
		Usage:  "exchange the stored refresh token for a new access token",
		Action: refreshAction,
	}
}

func refreshAction(ctx context.Context, cmd *cli.Command) error {
	manager, teardown, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer teardown()

	access, err := manager.Refresh(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Access token renewed; valid until %s\n", access.ExpiresAt.Format("2006-01-02 15:04:05"))
	return nil
}
