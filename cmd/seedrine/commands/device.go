package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/seedrine/internal/auth"
)

func deviceCommand() *cli.Command {
	return &cli.Command{
		Name:  "device",
		Usage: "device-authorization pairing",
		Commands: []*cli.Command{
			{
				Name:   "code",
				Usage:  "request a device/user code pair",
				Action: deviceCodeAction,
			},
			{
				Name:   "exchange",
				Usage:  "attempt to exchange the pending device code once",
				Action: deviceExchangeAction,
			},
			{
				Name:  "wait",
				Usage: "poll the exchange until the pairing is approved",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "poll interval",
						Value: 5 * time.Second,
					},
				},
				Action: deviceWaitAction,
			},
		},
	}
}

func deviceCodeAction(ctx context.Context, cmd *cli.Command) error {
	manager, teardown, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer teardown()

	device, err := manager.RequestDeviceCode(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Enter code %s on the device authorization page.\n", device.UserCode)
	if device.ExpiresAt != nil {
		fmt.Printf("The code expires at %s.\n", device.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func deviceExchangeAction(ctx context.Context, cmd *cli.Command) error {
	manager, teardown, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer teardown()

	access, err := manager.ExchangeDeviceCode(ctx)
	if errors.Is(err, auth.ErrAuthorizationPending) {
		fmt.Println("Pairing not approved yet; try again after approving the code.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Device registered; access token valid until %s\n", access.ExpiresAt.Format("2006-01-02 15:04:05"))
	return nil
}

func deviceWaitAction(ctx context.Context, cmd *cli.Command) error {
	manager, teardown, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer teardown()

	ticker := time.NewTicker(cmd.Duration("interval"))
	defer ticker.Stop()

	for {
		access, err := manager.ExchangeDeviceCode(ctx)
		if err == nil {
			fmt.Printf("Device registered; access token valid until %s\n", access.ExpiresAt.Format("2006-01-02 15:04:05"))
			return nil
		}
		if !errors.Is(err, auth.ErrAuthorizationPending) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
