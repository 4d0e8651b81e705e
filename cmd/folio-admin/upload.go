package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

func upload(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("upload requires one argument, the image file")
	}

	apiClient, err := getClient(c)
	if err != nil {
		return err
	}

	url, err := apiClient.UploadImage(c.Context, c.Args().Get(0))
	if err != nil {
		return err
	}

	fmt.Println(url)
	return nil
}
