package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	flagServer   = "server"
	flagEmail    = "email"
	flagPassword = "password"

	flagTitle     = "title"
	flagSlug      = "slug"
	flagContent   = "content"
	flagFile      = "file"
	flagExcerpt   = "excerpt"
	flagImage     = "image"
	flagDraft     = "draft"
	flagPublished = "published"
)

func main() {
	app := cli.NewApp()
	app.Name = "folio-admin"
	app.Usage = "Manage a folio site from the command line"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    flagServer,
			Aliases: []string{"s"},
			Usage:   "Address of the folio server",
			Value:   "http://localhost:8080",
			EnvVars: []string{"FOLIO_SERVER"},
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:  "login",
			Usage: "Sign in and persist the session",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagEmail,
					Aliases:  []string{"e"},
					Usage:    "Admin email",
					Required: true,
				},
				&cli.StringFlag{
					Name:    flagPassword,
					Aliases: []string{"p"},
					Usage:   "Admin password (prompted when omitted)",
				},
			},
			Action: login,
		},
		{
			Name:   "logout",
			Usage:  "Invalidate the session and forget it locally",
			Action: logout,
		},
		{
			Name:   "whoami",
			Usage:  "Show the identity behind the saved session",
			Action: whoami,
		},
		{
			Name:  "post",
			Usage: "Manage posts",
			Subcommands: []*cli.Command{
				{
					Name:   "list",
					Usage:  "List all posts including drafts",
					Action: postList,
				},
				{
					Name:  "create",
					Usage: "Create a post",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: flagTitle, Usage: "Post title", Required: true},
						&cli.StringFlag{Name: flagSlug, Usage: "URL slug (normalized server-side)", Required: true},
						&cli.StringFlag{Name: flagContent, Usage: "Markdown content"},
						&cli.StringFlag{Name: flagFile, Aliases: []string{"f"}, Usage: "Read content from a markdown file"},
						&cli.StringFlag{Name: flagExcerpt, Usage: "Short summary"},
						&cli.StringFlag{Name: flagImage, Usage: "Featured image URL"},
						&cli.BoolFlag{Name: flagDraft, Usage: "Create as an unpublished draft"},
					},
					Action: postCreate,
				},
				{
					Name:      "update",
					Usage:     "Replace a post",
					ArgsUsage: "POST_ID",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: flagTitle, Usage: "Post title", Required: true},
						&cli.StringFlag{Name: flagSlug, Usage: "URL slug", Required: true},
						&cli.StringFlag{Name: flagContent, Usage: "Markdown content"},
						&cli.StringFlag{Name: flagFile, Aliases: []string{"f"}, Usage: "Read content from a markdown file"},
						&cli.StringFlag{Name: flagExcerpt, Usage: "Short summary"},
						&cli.StringFlag{Name: flagImage, Usage: "Featured image URL"},
						&cli.BoolFlag{Name: flagPublished, Usage: "Published state", Value: true},
					},
					Action: postUpdate,
				},
				{
					Name:      "delete",
					Usage:     "Delete a post",
					ArgsUsage: "POST_ID",
					Action:    postDelete,
				},
			},
		},
		{
			Name:      "upload",
			Usage:     "Upload an image and print its public URL",
			ArgsUsage: "IMAGE_FILE",
			Action:    upload,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
