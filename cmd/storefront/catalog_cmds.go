package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dwikikusuma/storefront/internal/catalog/domain"
	"github.com/dwikikusuma/storefront/internal/catalog/view"
	"github.com/spf13/cobra"
)

func newProductsCmd(flags *rootFlags) *cobra.Command {
	var category, search string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally by category or title search",
		Example: `  storefront products
  storefront products --category electronics
  storefront products --search shirt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			listing := view.NewListing(rt.catalog, rt.log)
			if err := listing.Load(cmd.Context()); err != nil {
				return err
			}

			switch {
			case category != "":
				if err := listing.SelectCategory(cmd.Context(), category); err != nil {
					return err
				}
			case search != "":
				listing.SetSearchTerm(search)
			}

			if listing.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No products available")
				return nil
			}
			for _, p := range listing.Visible() {
				printRow(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", `only products in this category ("all" for every product)`)
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive title filter")
	cmd.MarkFlagsMutuallyExclusive("category", "search")
	return cmd
}

func newProductCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "product ID",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q", args[0])
			}

			rt, err := setup(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			detail := view.NewDetail(rt.catalog, rt.log)
			if err := detail.Show(cmd.Context(), id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("product %d not found", id)
				}
				return err
			}

			p, _ := detail.Product()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %d\n", p.ID)
			fmt.Fprintf(out, "Title:       %s\n", p.Title)
			fmt.Fprintf(out, "Price:       $%s\n", p.Price.StringFixed(2))
			fmt.Fprintf(out, "Category:    %s\n", p.Category)
			fmt.Fprintf(out, "Image:       %s\n", p.Image)
			fmt.Fprintf(out, "Description: %s\n", p.Description)
			return nil
		},
	}
}

func newCategoriesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			categories, err := rt.catalog.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}

func printRow(w io.Writer, p domain.Product) {
	fmt.Fprintf(w, "%4d  %10s  %s\n", p.ID, "$"+p.Price.StringFixed(2), p.Title)
}
