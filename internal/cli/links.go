package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/linktine/linktine/internal/api"
)

// newLinksCmd creates the links command group.
func (cli *CLI) newLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "links",
		Aliases: []string{"link"},
		Short:   "Manage bookmarks on the active profile's server",
		Long: `Manage bookmarks.

All commands run as the active profile (or the profile selected with
--profile) and authenticate with its stored credential.

Examples:
  # List the first page of links
  linktine links list

  # Search unread links tagged 'go'
  linktine links list --query=generics --tag=go --unread

  # Save a link
  linktine links add https://go.dev/blog --name="Go blog" --tags=go,reading

  # Mark a link as read
  linktine links update a1b2c3 --read

  # Delete a link
  linktine links remove a1b2c3`,
	}

	cmd.AddCommand(
		cli.newLinksListCmd(),
		cli.newLinksAddCmd(),
		cli.newLinksUpdateCmd(),
		cli.newLinksRemoveCmd(),
	)

	return cmd
}

// newLinksListCmd creates the links list command.
func (cli *CLI) newLinksListCmd() *cobra.Command {
	var (
		pageFlag       int
		limitFlag      int
		queryFlag      string
		tagFlag        string
		collectionFlag string
		readFlag       bool
		unreadFlag     bool
		archivedFlag   bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bookmarks",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			filter := api.LinkFilter{
				Page:         pageFlag,
				Limit:        limitFlag,
				Query:        queryFlag,
				Tag:          tagFlag,
				CollectionID: collectionFlag,
			}
			if limitFlag == 0 {
				filter.Limit = cli.Config.PageSize
			}
			if cmd.Flags().Changed("read") {
				filter.Read = &readFlag
			}
			if unreadFlag {
				f := false
				filter.Read = &f
			}
			if cmd.Flags().Changed("archived") {
				filter.Archived = &archivedFlag
			}

			page, err := client.Links(cmd.Context(), filter)
			if err != nil {
				return err
			}

			output := NewOutputWriter(format)
			return output.Write(page, func() {
				printLinks(page)
			})
		},
	}

	cmd.Flags().IntVar(&pageFlag, "page", 1, "Page number")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "Page size (defaults to the configured page size)")
	cmd.Flags().StringVarP(&queryFlag, "query", "q", "", "Search text")
	cmd.Flags().StringVar(&tagFlag, "tag", "", "Filter by tag name")
	cmd.Flags().StringVarP(&collectionFlag, "collection", "c", "", "Filter by collection id")
	cmd.Flags().BoolVar(&readFlag, "read", false, "Only read links")
	cmd.Flags().BoolVar(&unreadFlag, "unread", false, "Only unread links")
	cmd.Flags().BoolVar(&archivedFlag, "archived", false, "Only archived links")

	return cmd
}

// printLinks renders a page of links as a table.
func printLinks(page *api.Paginated[api.Link]) {
	if len(page.Data) == 0 {
		fmt.Println("No links found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tURL\tTAGS\tFLAGS")

	for _, link := range page.Data {
		title := link.Title
		if title == "" {
			title = link.Name
		}

		tags := make([]string, 0, len(link.Tags))
		for _, lt := range link.Tags {
			tags = append(tags, lt.Tag.Name)
		}

		var flags []string
		if link.Read {
			flags = append(flags, "read")
		}
		if link.Favorite {
			flags = append(flags, "fav")
		}
		if link.Archived {
			flags = append(flags, "archived")
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			link.ID, title, link.URL, strings.Join(tags, ","), strings.Join(flags, ","))
	}

	_ = w.Flush()

	fmt.Printf("\nPage %d, %d of %d link(s)\n", page.Page, len(page.Data), page.Total)
}

// newLinksAddCmd creates the links add command.
func (cli *CLI) newLinksAddCmd() *cobra.Command {
	var (
		nameFlag string
		tagsFlag []string
	)

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Save a new bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			link, err := client.CreateLink(cmd.Context(), api.LinkCreate{
				URL:  args[0],
				Name: nameFlag,
				Tags: tagsFlag,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Saved %q (%s)\n", args[0], link.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "Display name for the link")
	cmd.Flags().StringSliceVar(&tagsFlag, "tags", nil, "Tags to attach (comma-separated)")

	return cmd
}

// newLinksUpdateCmd creates the links update command.
func (cli *CLI) newLinksUpdateCmd() *cobra.Command {
	var (
		nameFlag     string
		urlFlag      string
		readFlag     bool
		archivedFlag bool
		favoriteFlag bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a bookmark",
		Long: `Update a bookmark.

Only the flags you pass are changed; everything else is left as-is.
Boolean flags can be negated, e.g. --read=false marks a link unread.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update api.LinkUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &nameFlag
			}
			if cmd.Flags().Changed("url") {
				update.URL = &urlFlag
			}
			if cmd.Flags().Changed("read") {
				update.Read = &readFlag
			}
			if cmd.Flags().Changed("archived") {
				update.Archived = &archivedFlag
			}
			if cmd.Flags().Changed("favorite") {
				update.Favorite = &favoriteFlag
			}

			if update == (api.LinkUpdate{}) {
				return fmt.Errorf("nothing to update, pass at least one flag")
			}

			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			if _, err := client.UpdateLink(cmd.Context(), args[0], update); err != nil {
				return err
			}

			fmt.Printf("Updated link %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "New display name")
	cmd.Flags().StringVar(&urlFlag, "url", "", "New URL")
	cmd.Flags().BoolVar(&readFlag, "read", true, "Mark as read (--read=false for unread)")
	cmd.Flags().BoolVar(&archivedFlag, "archived", true, "Archive (--archived=false to restore)")
	cmd.Flags().BoolVar(&favoriteFlag, "favorite", true, "Mark as favorite (--favorite=false to unmark)")

	return cmd
}

// newLinksRemoveCmd creates the links remove command.
func (cli *CLI) newLinksRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			if err := client.DeleteLink(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Deleted link %s\n", args[0])
			return nil
		},
	}
}
