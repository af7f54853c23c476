package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/florianilch/seedrine/internal/auth"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "perform a password-grant login",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "account username",
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "account password (prompted when omitted)",
			},
			&cli.BoolFlag{
				Name:  "save",
				Usage: "persist the plaintext credential for unattended renewal",
			},
		},
		Action: loginAction,
	}
}

func loginAction(ctx context.Context, cmd *cli.Command) error {
	manager, teardown, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer teardown()

	password := cmd.String("password")
	if password == "" && cmd.String("username") != "" {
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}

	pair, err := manager.Login(ctx, auth.LoginOptions{
		Username:       cmd.String("username"),
		Password:       password,
		SaveCredential: cmd.Bool("save"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Logged in; access token valid until %s\n", pair.Access.ExpiresAt.Format("2006-01-02 15:04:05"))
	return nil
}

// promptPassword reads the password from the terminal without echo, falling
// back to a plain line read when stdin is not a terminal (piped input).
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var password string
		if _, err := fmt.Fscanln(os.Stdin, &password); err != nil {
			return "", fmt.Errorf("reading password from stdin: %w", err)
		}
		return strings.TrimSpace(password), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}
