package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:   "token",
		Usage:  "print a currently-valid access token, renewing if necessary",
		Action: tokenAction,
	}
}

func tokenAction(ctx context.Context, cmd *cli.Command) error {
	manager, teardown, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer teardown()

	token, err := manager.AccessToken(ctx)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
