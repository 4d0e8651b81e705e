package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

func logout(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("logout requires no arguments")
	}

	apiClient, err := getClient(c)
	if err != nil {
		return err
	}

	// The holder clears local state and logs any invalidation failure;
	// the saved session must not outlive one the server may already
	// have dropped.
	holder := getHolder(apiClient)
	holder.SignOut(c.Context)
	holder.Close()

	if err := deleteConfig(); err != nil {
		return err
	}

	fmt.Println("Signed out.")
	return nil
}
