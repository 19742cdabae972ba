package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/linktine/linktine/internal/api"
)

// newTagsCmd creates the tags command group.
func (cli *CLI) newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tags",
		Aliases: []string{"tag"},
		Short:   "Manage tags",
		Long: `Manage tags.

Examples:
  # List all tags
  linktine tags list

  # Create a tag
  linktine tags add reading --color="#22c55e"

  # Rename a tag
  linktine tags update a1b2c3 --name=read-later

  # Replace the set of links a tag is attached to
  linktine tags assign a1b2c3 link1 link2 link3

  # Delete a tag
  linktine tags remove a1b2c3`,
	}

	cmd.AddCommand(
		cli.newTagsListCmd(),
		cli.newTagsAddCmd(),
		cli.newTagsUpdateCmd(),
		cli.newTagsAssignCmd(),
		cli.newTagsRemoveCmd(),
	)

	return cmd
}

// newTagsListCmd creates the tags list command.
func (cli *CLI) newTagsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			tags, err := client.Tags(cmd.Context())
			if err != nil {
				return err
			}

			output := NewOutputWriter(format)
			return output.Write(tags, func() {
				if len(tags) == 0 {
					fmt.Println("No tags found.")
					return
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCOLOR")
				for _, tag := range tags {
					fmt.Fprintf(w, "%s\t%s\t%s\n", tag.ID, tag.Name, tag.Color)
				}
				_ = w.Flush()
			})
		},
	}
}

// newTagsAddCmd creates the tags add command.
func (cli *CLI) newTagsAddCmd() *cobra.Command {
	var colorFlag string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			tag, err := client.CreateTag(cmd.Context(), api.TagCreate{
				Name:  args[0],
				Color: colorFlag,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created tag %q (%s)\n", tag.Name, tag.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&colorFlag, "color", "#6366f1", "Tag color")

	return cmd
}

// newTagsUpdateCmd creates the tags update command.
func (cli *CLI) newTagsUpdateCmd() *cobra.Command {
	var (
		nameFlag  string
		colorFlag string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or recolor a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("color") {
				return fmt.Errorf("nothing to update, pass --name or --color")
			}

			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			if err := client.UpdateTag(cmd.Context(), args[0], api.TagCreate{
				Name:  nameFlag,
				Color: colorFlag,
			}); err != nil {
				return err
			}

			fmt.Printf("Updated tag %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&nameFlag, "name", "n", "", "New tag name")
	cmd.Flags().StringVar(&colorFlag, "color", "", "New tag color")

	return cmd
}

// newTagsAssignCmd creates the tags assign command.
func (cli *CLI) newTagsAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> [link-id...]",
		Short: "Replace the set of links a tag is attached to",
		Long: `Replace the set of links a tag is attached to.

The given link ids become the complete set; links not listed are
detached. Passing no link ids detaches the tag from everything.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			linkIDs := args[1:]
			if err := client.UpdateTagLinks(cmd.Context(), args[0], linkIDs); err != nil {
				return err
			}

			fmt.Printf("Tag %s now attached to %d link(s)\n", args[0], len(linkIDs))
			return nil
		},
	}
}

// newTagsRemoveCmd creates the tags remove command.
func (cli *CLI) newTagsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a tag",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			if err := client.DeleteTag(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Deleted tag %s\n", args[0])
			return nil
		},
	}
}
