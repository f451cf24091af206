package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jcmexdev/storefront/internal/catalog"
	"github.com/jcmexdev/storefront/internal/pkg/money"
)

func newProductsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "Fetch and print the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := e.newLoader().Load(cmd.Context())
			if err != nil {
				return err
			}
			if snap.State == catalog.Error {
				return errors.New(snap.Message)
			}

			t := table.New().Headers("ID", "SẢN PHẨM", "GIÁ", "GIÁ GỐC", "GIẢM")
			for _, p := range snap.Products {
				original, discount := "", ""
				if p.HasDiscount {
					original = money.FormatVND(p.OriginalPrice)
					discount = fmt.Sprintf("-%d%%", p.DiscountPercent)
				}
				t.Row(strconv.Itoa(p.ID), p.Name, money.FormatVND(p.Price), original, discount)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return nil
		},
	}
}
