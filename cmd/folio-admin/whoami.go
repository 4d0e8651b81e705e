package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

func whoami(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("whoami requires no arguments")
	}

	apiClient, err := getClient(c)
	if err != nil {
		return err
	}

	_, user, err := apiClient.CurrentSession(c.Context)
	if err != nil {
		return fmt.Errorf("not signed in: %w", err)
	}

	fmt.Printf("%s (%s)\n", user.Email, user.ID)
	return nil
}
