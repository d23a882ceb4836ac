package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/norun9/dressco-storefront/cart"
	"github.com/norun9/dressco-storefront/cartstore"
	"github.com/norun9/dressco-storefront/telemetry"
)

const cartCmdTimeout = 30 * time.Second

func newCartCmd(opts *rootOptions) *cobra.Command {
	var session string
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect persisted carts",
	}
	cmd.PersistentFlags().StringVarP(&session, "session", "s", "", "shopper session id (required)")
	_ = cmd.MarkPersistentFlagRequired("session")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print a session's cart with totals, as the server would load it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSlot(cmd.Context(), opts, session, func(ctx context.Context, store cartstore.ICartStore) error {
				lines, err := cartstore.NewSlot(store, session).Load(ctx)
				if errors.Is(err, cart.ErrCorruptSnapshot) {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
					lines = nil
				} else if err != nil {
					return err
				}
				return printCart(cmd, cart.Normalize(lines))
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete a session's persisted cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSlot(cmd.Context(), opts, session, func(ctx context.Context, store cartstore.ICartStore) error {
				if err := store.Delete(ctx, session); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared cart for session %s\n", session)
				return nil
			})
		},
	})
	return cmd
}

func withSlot(ctx context.Context, opts *rootOptions, session string, fn func(context.Context, cartstore.ICartStore) error) error {
	if session == "" {
		return errors.New("--session is required")
	}
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	log, err := telemetry.NewLogger(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cartCmdTimeout)
	defer cancel()

	store, err := cartstore.New(cfg.CartStore, log)
	if err != nil {
		return err
	}
	if err := store.Initialize(ctx); err != nil {
		return errors.Wrap(err, "initializing cart store")
	}
	defer store.Close()
	return fn(ctx, store)
}

func printCart(cmd *cobra.Command, lines []cart.Line) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tPRODUCT\tSIZE\tCOLOR\tQTY\tPRICE\tTOTAL")
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			l.ID, l.Product.Name, l.SelectedSize, l.SelectedColor, l.Quantity,
			l.Product.UnitPrice().StringFixed(2), l.Total().StringFixed(2))
	}
	fmt.Fprintf(w, "\nitems: %d\tsubtotal: %s\n", cart.TotalItems(lines), cart.Subtotal(lines).StringFixed(2))
	return w.Flush()
}
