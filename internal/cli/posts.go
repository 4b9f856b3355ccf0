package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vaughan-dsouza/postboard/internal/models"
	"github.com/vaughan-dsouza/postboard/internal/views"
)

// maxCellWidth truncates long content in the list table.
const maxCellWidth = 48

var errBlankInput = errors.New("title and content are required")

// ---------------------- LIST ----------------------

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List posts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.ListPosts(cmd.Context())
			if err != nil {
				return err
			}

			if len(resp.Data) == 0 {
				fmt.Fprintln(a.out, views.EmptyMessage)
				return nil
			}

			table := tablewriter.NewWriter(a.out)
			table.SetAutoWrapText(false)
			table.SetHeader([]string{"ID", "Title", "Content", "Created"})
			for _, p := range resp.Data {
				table.Append([]string{
					strconv.FormatInt(p.ID, 10),
					p.Title,
					truncate(p.Content, maxCellWidth),
					a.dates.Format(p.CreatedAt),
				})
			}
			table.Render()
			return nil
		},
	}
}

// ---------------------- GET ONE ----------------------

func (a *app) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			resp, err := a.client.GetPost(cmd.Context(), id)
			if err != nil {
				return err
			}
			a.printPost(resp.Data)
			return nil
		},
	}
}

// ---------------------- CREATE ----------------------

func (a *app) createCmd() *cobra.Command {
	var in models.PostInput
	cmd := &cobra.Command{
		Use:   "create --title <title> --content <content>",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Blank() {
				return errBlankInput
			}
			resp, err := a.client.CreatePost(cmd.Context(), in)
			if err != nil {
				return err
			}
			color.New(color.FgHiGreen).Fprintf(a.out, "Created post #%d\n", resp.Data.ID)
			a.printPost(resp.Data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "post title")
	cmd.Flags().StringVarP(&in.Content, "content", "c", "", "post content")
	return cmd
}

// ---------------------- UPDATE ----------------------

func (a *app) updateCmd() *cobra.Command {
	var in models.PostInput
	cmd := &cobra.Command{
		Use:   "update <id> --title <title> --content <content>",
		Short: "Replace a post's title and content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if in.Blank() {
				return errBlankInput
			}
			resp, err := a.client.UpdatePost(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			color.New(color.FgHiGreen).Fprintf(a.out, "Updated post #%d\n", resp.Data.ID)
			a.printPost(resp.Data)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "post title")
	cmd.Flags().StringVarP(&in.Content, "content", "c", "", "post content")
	return cmd
}

// ---------------------- DELETE ----------------------

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a post",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.client.DeletePost(cmd.Context(), id); err != nil {
				return err
			}
			color.New(color.FgHiGreen).Fprintf(a.out, "Deleted post #%d\n", id)
			return nil
		},
	}
}

func (a *app) printPost(p models.Post) {
	bold := color.New(color.Bold)
	bold.Fprintf(a.out, "#%d %s\n", p.ID, p.Title)
	fmt.Fprintln(a.out, p.Content)
	fmt.Fprintf(a.out, "Created: %s  Updated: %s\n",
		a.dates.Format(p.CreatedAt),
		p.UpdatedAt.UTC().Format(time.RFC3339),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
