package commands

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"yacht_automate/internal/adapters/observability"
	"yacht_automate/internal/app"
	"yacht_automate/internal/domain"
	"yacht_automate/internal/storage/memory"
	mysqlrepo "yacht_automate/internal/storage/mysql"
)

const demoTenant = "demo"

var (
	dsn      string
	tenantID string
	verbose  bool

	store  domain.Store
	closer io.Closer
)

func Execute() error { return newRootCmd().Execute() }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "charterctl",
		Short:         "Match inquiries and price charters against a yacht inventory",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl := zerolog.WarnLevel
			if verbose {
				lvl = zerolog.DebugLevel
			}
			log.Logger = observability.NewLogger("dev").Level(lvl)
			return openStore(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closer != nil {
				return closer.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dsn, "dsn", "", "MySQL DSN (default: in-memory demo fleet)")
	root.PersistentFlags().StringVarP(&tenantID, "tenant", "t", demoTenant, "tenant id")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(fleetCmd(), matchCmd(), quoteCmd())
	return root
}

// openStore connects to MySQL when --dsn is set, otherwise builds an
// in-memory store holding the demo fleet for the selected tenant.
func openStore(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if dsn != "" {
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return fmt.Errorf("ping mysql: %w", err)
		}
		store, closer = mysqlrepo.New(db), db
		return nil
	}

	mem := memory.New()
	if _, err := app.NewTenantService(mem, mem).Upsert(ctx, app.TenantInput{ID: tenantID, Name: tenantID}); err != nil {
		return err
	}
	if _, err := app.NewSeedService(mem, mem, nil).SeedFleet(ctx, tenantID); err != nil {
		return err
	}
	store, closer = mem, nil
	return nil
}
