package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	"github.com/dwikikusuma/storefront/internal/catalog/infra/fakestore"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	checkoutadapter "github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/storefront/internal/shell"
	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/dwikikusuma/storefront/pkg/shutdown"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	logLevel   string
	baseURL    string
}

// runtime is what every command is built from.
type runtime struct {
	cfg     config.Config
	log     *slog.Logger
	catalog *catalogapp.Service
	closer  io.Closer
}

func (r *runtime) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func main() {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "storefront",
		Short: "Browse the product catalog and try out a local cart",
		Long: `storefront reads products from a fakestore-compatible catalog service.

Run without arguments to start the interactive shell: log in, browse and
search products, open a product, and manage a cart that lives only for the
session.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML config file (default $STOREFRONT_CONFIG)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "catalog service base URL")

	root.AddCommand(
		newProductsCmd(flags),
		newProductCmd(flags),
		newCategoriesCmd(flags),
		&cobra.Command{
			Use:   "shell",
			Short: "Start the interactive storefront",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runShell(cmd, flags)
			},
		},
	)
	return root
}

// setup loads config and builds the catalog stack. Logs go to logOut, or
// to the configured log file when logOut is nil.
func setup(flags *rootFlags, logOut io.Writer) (*runtime, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.baseURL != "" {
		cfg.CatalogBaseURL = flags.baseURL
	}

	var closer io.Closer
	if logOut == nil {
		f, err := logger.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logOut, closer = f, f
	}

	log := logger.New(logger.Options{
		Service:   "storefront",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: cfg.AppEnv != "prod",
		Output:    logOut,
	})

	client := fakestore.NewProductClient(cfg.CatalogBaseURL, cfg.HTTPTimeout, log)
	return &runtime{
		cfg:     cfg,
		log:     log,
		catalog: catalogapp.NewService(client),
		closer:  closer,
	}, nil
}

func runShell(cmd *cobra.Command, flags *rootFlags) error {
	rt, err := setup(flags, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	var seed []cartapp.Option
	if rt.cfg.SeedDemoCart {
		seed = append(seed, cartapp.WithItems(cartapp.DemoItems()...))
	}
	cart := cartapp.NewStore(append(seed, cartapp.WithLogger(rt.log))...)

	checkout := checkoutapp.NewService(
		checkoutadapter.NewCartStoreReader(cart),
		checkoutadapter.NewCatalogServiceReader(rt.catalog),
		rt.cfg.QuoteConcurrency,
	)

	rt.log.Info("shell starting", slog.String("catalog", rt.cfg.CatalogBaseURL))
	err = shell.Run(cmd.Context(), shell.Deps{
		Catalog:  rt.catalog,
		Cart:     cart,
		Checkout: checkout,
		Log:      rt.log,
	}, cmd.InOrStdin(), cmd.OutOrStdout())
	rt.log.Info("bye")
	return err
}
