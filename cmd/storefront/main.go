package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/norun9/dressco-storefront/config"
)

type rootOptions struct {
	configPath string
	port       string
	grpcPort   string
	backend    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Dressco storefront cart service",
		Long: `storefront serves the shopper cart, catalog and admin API over HTTP and
reports cart store health over gRPC.

Settings are read from the --config YAML file, then environment variables
(PORT, GRPC_PORT, CART_STORE, REDIS_ADDR, ...), then flags.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", os.Getenv("STOREFRONT_CONFIG"), "YAML config file")
	pf.StringVar(&opts.port, "port", "", "HTTP port")
	pf.StringVar(&opts.grpcPort, "grpc-port", "", "gRPC health port")
	pf.StringVar(&opts.backend, "cart-store", "", "cart store backend (memory, file, redis, sqlite)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newCartCmd(opts))
	return root
}

// load resolves the config file and environment, then applies any flags set.
func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.port != "" {
		cfg.Port = o.port
	}
	if o.grpcPort != "" {
		cfg.GRPCPort = o.grpcPort
	}
	if o.backend != "" {
		cfg.CartStore.Backend = o.backend
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
