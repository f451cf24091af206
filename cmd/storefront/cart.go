package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jcmexdev/storefront/internal/cart/app"
	"github.com/jcmexdev/storefront/internal/cart/domain"
	"github.com/jcmexdev/storefront/internal/catalog"
	"github.com/jcmexdev/storefront/internal/pkg/money"
)

func newCartCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect or edit the cart",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the cart and its totals",
			Args:  cobra.NoArgs,
			RunE: e.withStore(func(ctx context.Context, out io.Writer, store *app.Store, _ []string) error {
				printCart(out, store.Items())
				return e.printLastSaved(ctx, out)
			}),
		},
		&cobra.Command{
			Use:   "add <product-id>",
			Short: "Add one unit of a catalog product",
			Args:  cobra.ExactArgs(1),
			RunE: e.withStore(func(ctx context.Context, out io.Writer, store *app.Store, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				loader := e.newLoader()
				snap, err := loader.Load(ctx)
				if err != nil {
					return err
				}
				if snap.State == catalog.Error {
					return errors.New(snap.Message)
				}
				p, ok := loader.Lookup(id)
				if !ok {
					return fmt.Errorf("product %d not found", id)
				}
				items, err := store.AddToCart(ctx, p.Product())
				if err != nil {
					return err
				}
				printCart(out, items)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "set <product-id> <quantity>",
			Short: "Set a line's quantity (clamped to 1..99)",
			Args:  cobra.ExactArgs(2),
			RunE: e.withStore(func(ctx context.Context, out io.Writer, store *app.Store, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				q, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				items, err := store.UpdateQuantity(ctx, id, q)
				if err != nil {
					return err
				}
				printCart(out, items)
				return nil
			}),
		},
		&cobra.Command{
			Use:     "remove <product-id>",
			Aliases: []string{"rm"},
			Short:   "Remove a line",
			Args:    cobra.ExactArgs(1),
			RunE: e.withStore(func(ctx context.Context, out io.Writer, store *app.Store, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				items, err := store.RemoveFromCart(ctx, id)
				if err != nil {
					return err
				}
				printCart(out, items)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: e.withStore(func(ctx context.Context, out io.Writer, store *app.Store, _ []string) error {
				items, err := store.Clear(ctx)
				if err != nil {
					return err
				}
				printCart(out, items)
				return nil
			}),
		},
	)
	return cmd
}

type storeFunc func(ctx context.Context, out io.Writer, store *app.Store, args []string) error

func (e *env) withStore(fn storeFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, closer, err := e.openStore(ctx)
		if err != nil {
			return err
		}
		defer closer.Close()
		return fn(ctx, cmd.OutOrStdout(), store, args)
	}
}

// printLastSaved reports the snapshot's write time on backends that keep one.
func (e *env) printLastSaved(ctx context.Context, out io.Writer) error {
	if e.lastSaved == nil {
		return nil
	}
	at, ok, err := e.lastSaved(ctx, e.cfg.Storage.Key)
	if err != nil || !ok {
		return err
	}
	fmt.Fprintf(out, "Lưu lúc: %s\n", at.Local().Format(time.DateTime))
	return nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", s)
	}
	return id, nil
}

func printCart(out io.Writer, items domain.Cart) {
	if len(items) == 0 {
		fmt.Fprintln(out, "Giỏ hàng trống!")
		return
	}
	t := table.New().Headers("ID", "SẢN PHẨM", "ĐƠN GIÁ", "SL", "THÀNH TIỀN")
	for _, it := range items {
		t.Row(strconv.Itoa(it.ID), it.Name, money.FormatVND(it.Price), strconv.Itoa(it.Quantity), money.FormatVND(it.Subtotal()))
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "Tổng số lượng: %d\n", items.TotalItems())
	fmt.Fprintf(out, "Tổng tiền: %s\n", money.FormatVND(items.TotalPrice()))
}
