package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bookwire/bookwire/pkg/client"
	"github.com/bookwire/bookwire/pkg/codec"
)

// newFetchCmd creates the "fetch" command: retrieve one wire format from a
// running server, decode it, and print the reconstructed graph.
func newFetchCmd() *cobra.Command {
	var (
		format string
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "fetch [server-url]",
		Short: "Fetch the catalog and print the decoded graph",
		Long: `Fetch one encoded catalog payload from a bookwire server and rebuild the
full object graph locally. Both formats yield the same graph; --format picks
which bytes travel.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			baseURL := "http://localhost:8080"
			if len(args) == 1 {
				baseURL = strings.TrimSuffix(args[0], "/")
			}

			c := client.New(baseURL)

			if raw {
				data, err := c.FetchBytes(ctx, format)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			}

			p := newProgress(logger)
			g, err := c.FetchGraph(ctx, format)
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Decoded %d books, %d authors, %d genres via %s",
				len(g.Books), len(g.Authors), len(g.Genres), format))

			fmt.Fprint(cmd.OutOrStdout(), renderGraph(g))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", codec.NameDocument,
		fmt.Sprintf("wire format (%s)", strings.Join(codec.Names(), "|")))
	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw payload bytes instead of the decoded graph")

	return cmd
}
