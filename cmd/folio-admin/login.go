package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func login(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("login requires no arguments")
	}

	email := c.String(flagEmail)
	password := c.String(flagPassword)
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(raw)
	}

	server := c.String(flagServer)
	apiClient, err := getClient(c)
	if err != nil {
		return err
	}

	holder := getHolder(apiClient)
	defer holder.Close()

	if err := holder.SignIn(c.Context, email, password); err != nil {
		// The server's message is the user-facing explanation.
		return err
	}

	state := holder.Current()
	if err := saveConfig(&cliConfig{Server: server, Session: state.Session}); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s.\n", state.User.Email)
	return nil
}
