package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"yacht_automate/internal/domain"
	"yacht_automate/internal/quote"
)

func fleetCmd() *cobra.Command {
	var (
		area   string
		guests int
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "List the tenant's yachts, cheapest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := domain.YachtFilter{Guests: guests, Limit: limit}
			if area != "" {
				r, ok := domain.ParseRegion(area)
				if !ok {
					return fmt.Errorf("unknown area %q", area)
				}
				f.Region = &r
			}
			page, err := store.SearchYachts(cmd.Context(), tenantID, f)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tBUILDER\tTYPE\tAREA\tLENGTH\tGUESTS\tWEEKLY")
			for _, y := range page.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%dm\t%d\t%s\n",
					y.Name, y.Builder, y.Type, y.Region, y.LengthM, y.Guests, quote.Money(y.WeeklyRate, y.Currency))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d yachts\n", len(page.Items), page.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&area, "area", "", "Mediterranean, Caribbean or Bahamas")
	cmd.Flags().IntVar(&guests, "guests", 0, "minimum guest capacity")
	cmd.Flags().IntVar(&limit, "limit", 0, "max rows (0 = all)")
	return cmd
}
