package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"
)

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "show which credential material is stored",
		Action: statusAction,
	}
}

// statusAction reads the store directly; displaying state must not trigger
// any renewal.
func statusAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := cfg.State.NewStateStore()
	if err != nil {
		return fmt.Errorf("failed to create state store: %w", err)
	}

	s, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load credential state: %w", err)
	}

	now := time.Now()
	switch {
	case s.Access.Valid(now):
		fmt.Printf("access token:  valid until %s\n", s.Access.ExpiresAt.Format("2006-01-02 15:04:05"))
	case s.Access != nil:
		fmt.Println("access token:  expired")
	default:
		fmt.Println("access token:  none")
	}

	if s.Refresh != nil && s.Refresh.Token != "" {
		fmt.Println("refresh token: stored")
	} else {
		fmt.Println("refresh token: none")
	}

	switch {
	case s.Device.Approved():
		fmt.Println("device:        registered")
	case s.Device.Pending(now):
		fmt.Printf("device:        code %s pending approval\n", s.Device.UserCode)
	case s.Device != nil:
		fmt.Println("device:        code lapsed")
	default:
		fmt.Println("device:        none")
	}

	if s.Credential.Complete() {
		fmt.Printf("credential:    stored for %s\n", s.Credential.Username)
	} else {
		fmt.Println("credential:    none")
	}

	return nil
}
