package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newDashboardCmd creates the dashboard command.
func (cli *CLI) newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show account statistics and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseOutputFormat(cli.outputFlag)
			if err != nil {
				return err
			}

			client, err := cli.apiClient()
			if err != nil {
				return err
			}

			dash, err := client.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			output := NewOutputWriter(format)
			return output.Write(dash, func() {
				fmt.Printf("Links:       %d total, %d read, %d favorite, %d archived\n",
					dash.Stats.TotalLinks, dash.Stats.ReadLinks, dash.Stats.FavoriteLinks, dash.Stats.ArchivedLinks)
				fmt.Printf("Collections: %d\n", dash.Stats.TotalCollections)
				fmt.Printf("Tags:        %d\n", dash.Stats.TotalTags)

				if len(dash.RecentLinks) > 0 {
					fmt.Println()
					fmt.Println("Recent links:")
					w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
					for _, link := range dash.RecentLinks {
						fmt.Fprintf(w, "  %s\t%s\t%s\n", link.ID, link.Title, link.URL)
					}
					_ = w.Flush()
				}

				if len(dash.TopTags) > 0 {
					fmt.Println()
					fmt.Println("Top tags:")
					for _, tag := range dash.TopTags {
						fmt.Printf("  %s (%d)\n", tag.Name, tag.Count)
					}
				}
			})
		},
	}
}
