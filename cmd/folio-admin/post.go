package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"folio/internal/service"
)

func postList(c *cli.Context) error {
	if c.Args().Len() != 0 {
		return errors.New("post list requires no arguments")
	}

	apiClient, err := getClient(c)
	if err != nil {
		return err
	}

	posts, err := apiClient.ListAll(c.Context)
	if err != nil {
		return err
	}

	if len(posts) == 0 {
		fmt.Println("No posts found.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tTITLE\tSTATUS\tUPDATED")
	for _, post := range posts {
		status := "draft"
		if post.Published {
			status = "published"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			post.ID, post.Slug, post.Title, status,
			post.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func postCreate(c *cli.Context) error {
	in, err := postInputFromFlags(c)
	if err != nil {
		return err
	}
	if c.Bool(flagDraft) {
		draft := false
		in.Published = &draft
	}

	apiClient, err := getClient(c)
	if err != nil {
		return err
	}

	post, err := apiClient.CreatePost(c.Context, in)
	if err != nil {
		return err
	}

	fmt.Printf("Created post %s (slug %q).\n", post.ID, post.Slug)
	return nil
}

func postUpdate(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("post update requires one argument, the post ID")
	}
	id := c.Args().Get(0)

	in, err := postInputFromFlags(c)
	if err != nil {
		return err
	}
	published := c.Bool(flagPublished)
	in.Published = &published

	apiClient, err := getClient(c)
	if err != nil {
		return err
	}

	post, err := apiClient.UpdatePost(c.Context, id, in)
	if err != nil {
		return err
	}

	fmt.Printf("Updated post %s (slug %q).\n", post.ID, post.Slug)
	return nil
}

func postDelete(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("post delete requires one argument, the post ID")
	}
	id := c.Args().Get(0)

	apiClient, err := getClient(c)
	if err != nil {
		return err
	}

	if err := apiClient.DeletePost(c.Context, id); err != nil {
		return err
	}

	fmt.Printf("Deleted post %s.\n", id)
	return nil
}

func postInputFromFlags(c *cli.Context) (service.PostInput, error) {
	in := service.PostInput{
		Title:   c.String(flagTitle),
		Slug:    c.String(flagSlug),
		Content: c.String(flagContent),
		Excerpt: c.String(flagExcerpt),
	}

	if file := c.String(flagFile); file != "" {
		if in.Content != "" {
			return in, fmt.Errorf("--%s and --%s are mutually exclusive",
				flagContent, flagFile)
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return in, fmt.Errorf("failed to read %s: %w", file, err)
		}
		in.Content = string(data)
	}

	if image := c.String(flagImage); image != "" {
		in.FeaturedImage = &image
	}

	return in, nil
}
