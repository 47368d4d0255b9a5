package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"yacht_automate/internal/app"
)

func matchCmd() *cobra.Command {
	var (
		party    int
		location string
		loose    bool
		limit    int
		explain  bool
	)
	cmd := &cobra.Command{
		Use:     "match [notes...]",
		Short:   "Rank yachts for a free-text inquiry",
		Example: `  charterctl match --party 8 --location "French Riviera" luxury motor yacht`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if party < 1 {
				return errors.New("--party must be at least 1")
			}
			strict := !loose
			out, err := app.NewMatchService(store).Match(cmd.Context(), tenantID, app.MatchInput{
				Notes: strings.Join(args, " "), PartySize: party, Location: location,
				Strict: &strict, Limit: limit, Explain: explain,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "tokens: %s\nregions: %s\n\n", strings.Join(out.Tokens, ", "), strings.Join(out.Regions, ", "))
			if len(out.Matches) == 0 {
				fmt.Fprintln(w, "no yachts match")
				return nil
			}
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			header := "#\tSCORE\tNAME\tTYPE\tAREA\tGUESTS"
			if explain {
				header += "\tREGION\tTOKENS\tFIT\tTYPE+\tLUX"
			}
			fmt.Fprintln(tw, header)
			for i, m := range out.Matches {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%d", i+1, m.Score, m.Yacht.Name, m.Yacht.Type, m.Yacht.Region, m.Yacht.Guests)
				if b := m.Breakdown; b != nil {
					fmt.Fprintf(tw, "\t%d\t%d\t%d\t%d\t%d", b.Region, b.Tokens, b.Guests, b.TypeBonus, b.Luxury)
				}
				fmt.Fprintln(tw)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(w, "\n%d shown, %d candidates\n", len(out.Matches), out.Total)
			return nil
		},
	}
	cmd.Flags().IntVarP(&party, "party", "n", 0, "party size")
	cmd.Flags().StringVarP(&location, "location", "l", "", "location hint")
	cmd.Flags().BoolVar(&loose, "loose", false, "accept any capacity >= party size")
	cmd.Flags().IntVar(&limit, "limit", 10, "max results")
	cmd.Flags().BoolVar(&explain, "explain", false, "show per-rule score breakdown")
	return cmd
}
