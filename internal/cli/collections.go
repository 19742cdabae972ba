package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/linktine/linktine/internal/api"
)

// newCollectionsCmd creates the collections command group.
func (cli *CLI) newCollectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection", "col"},
		Short:   "Manage bookmark collections",
		Long: `Manage collections, the folder-like grouping of links.

Collections form a hierarchy. Listing without --parent shows the
top-level collections; pass --parent to descend.

Examples:
  # List top-level collections
  linktine collections list

  # Create a nested collection
  linktine collections add "Papers" --parent=a1b2c3 --color="#ff8800"

  # Move a collection to the top level
  linktine collections move a1b2c3

  # Delete a collection
  linktine collections remove a1b2c3`,
	}

	cmd.AddCommand(
		cli.newCollectionsListCmd(),
		cli.newCollectionsAddCmd(),
		cli.newCollectionsMoveCmd(),
		cli.newCollectionsRemoveCmd(),
	)

	return cmd
}

// newCollectionsListCmd creates the collections list command.
func (cli *CLI) newCollectionsListCmd() *cobra.Command {
	var parentFlag string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			collections, err := client.Collections(cmd.Context(), parentFlag)
			if err != nil {
				return err
			}

			output := NewOutputWriter(format)
			return output.Write(collections, func() {
				if len(collections) == 0 {
					fmt.Println("No collections found.")
					return
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCOLOR\tDESCRIPTION")
				for _, col := range collections {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", col.ID, col.Name, col.Color, col.Description)
				}
				_ = w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&parentFlag, "parent", "", "List children of this collection id")

	return cmd
}

// newCollectionsAddCmd creates the collections add command.
func (cli *CLI) newCollectionsAddCmd() *cobra.Command {
	var (
		descriptionFlag string
		colorFlag       string
		parentFlag      string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			col, err := client.CreateCollection(cmd.Context(), api.CollectionCreate{
				Name:        args[0],
				Description: descriptionFlag,
				Color:       colorFlag,
				ParentID:    parentFlag,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created collection %q (%s)\n", col.Name, col.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&descriptionFlag, "description", "d", "", "Collection description")
	cmd.Flags().StringVar(&colorFlag, "color", "#6366f1", "Collection color")
	cmd.Flags().StringVar(&parentFlag, "parent", "", "Parent collection id (top level if omitted)")

	return cmd
}

// newCollectionsMoveCmd creates the collections move command.
func (cli *CLI) newCollectionsMoveCmd() *cobra.Command {
	var parentFlag string

	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Move a collection under another parent",
		Long: `Move a collection under another parent.

Omitting --parent moves the collection to the top level.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			if err := client.MoveCollection(cmd.Context(), args[0], parentFlag); err != nil {
				return err
			}

			if parentFlag == "" {
				fmt.Printf("Moved collection %s to the top level\n", args[0])
			} else {
				fmt.Printf("Moved collection %s under %s\n", args[0], parentFlag)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&parentFlag, "parent", "", "New parent collection id")

	return cmd
}

// newCollectionsRemoveCmd creates the collections remove command.
func (cli *CLI) newCollectionsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a collection",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			if err := client.DeleteCollection(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("Deleted collection %s\n", args[0])
			return nil
		},
	}
}
