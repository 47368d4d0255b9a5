package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"yacht_automate/internal/domain"
	"yacht_automate/internal/quote"
)

func quoteCmd() *cobra.Command {
	var weeks, extras int64
	cmd := &cobra.Command{
		Use:   "quote <yacht id or name>",
		Short: "Price a charter without storing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			y, err := findYacht(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			b, err := quote.Calculate(y, weeks, extras)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s, %s), %d week(s)\n\n%s\n", y.Name, y.Builder, y.Region, weeks, quote.FormatBreakdown(b))
			return nil
		},
	}
	cmd.Flags().Int64VarP(&weeks, "weeks", "w", quote.DefaultWeeks, "charter length in weeks")
	cmd.Flags().Int64Var(&extras, "extras", quote.DefaultExtras, "flat extras amount")
	return cmd
}

// findYacht resolves an id first, then an exact case-insensitive name.
func findYacht(ctx context.Context, ref string) (domain.Yacht, error) {
	if y, err := store.GetYacht(ctx, ref); err == nil && y.TenantID == tenantID {
		return y, nil
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Yacht{}, err
	}
	page, err := store.SearchYachts(ctx, tenantID, domain.YachtFilter{Q: &ref})
	if err != nil {
		return domain.Yacht{}, err
	}
	for _, y := range page.Items {
		if strings.EqualFold(y.Name, ref) {
			return y, nil
		}
	}
	return domain.Yacht{}, fmt.Errorf("yacht %q: %w", ref, domain.ErrNotFound)
}
