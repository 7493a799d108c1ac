package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mkrupp/storefront/internal/domain"
	"github.com/mkrupp/storefront/internal/infra/format"
)

func addListFlags(flags *pflag.FlagSet, query *domain.ListQuery) {
	flags.IntVar(&query.Page, "page", 0, "page number")
	flags.IntVar(&query.Limit, "limit", 0, "results per page")
	flags.StringVar(&query.Sort, "sort", "", `sort field, prefix with "-" for descending`)
}

func (c *cli) newProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse products",
	}

	var query domain.ProductsQuery

	listCmd := &cobra.Command{
		Use:         "list",
		Short:       "List products",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.app.Catalog.ListProducts(cmd.Context(), query)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, productsView(resp.Data, pageFooter(resp.Metadata, resp.Results)))
		},
	}

	addListFlags(listCmd.Flags(), &query.ListQuery)
	listCmd.Flags().StringVar(&query.Category, "category", "", "category id")
	listCmd.Flags().StringVar(&query.Brand, "brand", "", "brand id")
	listCmd.Flags().StringVar(&query.Price, "price", "", "minimum price")
	listCmd.Flags().StringVar(&query.Keyword, "keyword", "", "search the title")

	getCmd := &cobra.Command{
		Use:         "get PRODUCT_ID",
		Short:       "Show a product",
		Args:        cobra.ExactArgs(1),
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := c.app.Catalog.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, productView(product))
		},
	}

	var featuredLimit int

	featuredCmd := &cobra.Command{
		Use:         "featured",
		Short:       "Show featured products, or bundled ones when the API is unreachable",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			featured, err := c.app.Catalog.FeaturedProducts(cmd.Context(), featuredLimit)
			if err != nil {
				return err //nolint:wrapcheck
			}

			footer := ""
			if featured.Placeholder {
				footer = "API unavailable, showing sample products"
			}

			return c.print(cmd, format.NewView(featured, productsTable(featured.Products, footer)))
		},
	}

	featuredCmd.Flags().IntVar(&featuredLimit, "limit", 0, "number of products")

	var (
		width  int
		output string
	)

	thumbnailCmd := &cobra.Command{
		Use:         "thumbnail PRODUCT_ID",
		Short:       "Render the cover image of a product",
		Args:        cobra.ExactArgs(1),
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			thumb, err := c.app.Catalog.Thumbnail(cmd.Context(), args[0], width)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(thumb.Data)

				return err //nolint:wrapcheck
			}

			if err := os.WriteFile(output, thumb.Data, 0o644); err != nil { //nolint:gosec
				return fmt.Errorf("write thumbnail: %w", err)
			}

			return c.print(cmd, thumbnailView(thumb, output))
		},
	}

	thumbnailCmd.Flags().IntVar(&width, "width", 256, "thumbnail width in pixels")
	thumbnailCmd.Flags().StringVar(&output, "out", "", `file to write the image to ("-" for stdout)`)
	_ = thumbnailCmd.MarkFlagRequired("out")

	cmd.AddCommand(listCmd, getCmd, featuredCmd, thumbnailCmd)

	return cmd
}

func (c *cli) newCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Browse categories",
	}

	var query domain.ListQuery

	listCmd := &cobra.Command{
		Use:         "list",
		Short:       "List categories",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.app.Catalog.ListCategories(cmd.Context(), query)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, categoriesView(resp.Data))
		},
	}
	addListFlags(listCmd.Flags(), &query)

	getCmd := &cobra.Command{
		Use:         "get CATEGORY_ID",
		Short:       "Show a category",
		Args:        cobra.ExactArgs(1),
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := c.app.Catalog.GetCategory(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, categoriesView([]domain.Category{category}))
		},
	}

	subsCmd := &cobra.Command{
		Use:         "subcategories CATEGORY_ID",
		Short:       "List the subcategories of a category",
		Args:        cobra.ExactArgs(1),
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.app.Catalog.ListCategorySubCategories(cmd.Context(), args[0], query)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, subCategoriesView(resp.Data))
		},
	}
	addListFlags(subsCmd.Flags(), &query)

	cmd.AddCommand(listCmd, getCmd, subsCmd)

	return cmd
}

func (c *cli) newSubCategoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subcategories",
		Aliases: []string{"subcategory"},
		Short:   "Browse subcategories",
	}

	var query domain.ListQuery

	listCmd := &cobra.Command{
		Use:         "list",
		Short:       "List subcategories",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.app.Catalog.ListSubCategories(cmd.Context(), query)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, subCategoriesView(resp.Data))
		},
	}
	addListFlags(listCmd.Flags(), &query)

	getCmd := &cobra.Command{
		Use:         "get SUBCATEGORY_ID",
		Short:       "Show a subcategory",
		Args:        cobra.ExactArgs(1),
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := c.app.Catalog.GetSubCategory(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, subCategoriesView([]domain.SubCategory{sub}))
		},
	}

	cmd.AddCommand(listCmd, getCmd)

	return cmd
}

func (c *cli) newBrandsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "brands",
		Aliases: []string{"brand"},
		Short:   "Browse brands",
	}

	var query domain.ListQuery

	listCmd := &cobra.Command{
		Use:         "list",
		Short:       "List brands",
		Args:        cobra.NoArgs,
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := c.app.Catalog.ListBrands(cmd.Context(), query)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, brandsView(resp.Data))
		},
	}
	addListFlags(listCmd.Flags(), &query)

	getCmd := &cobra.Command{
		Use:         "get BRAND_ID",
		Short:       "Show a brand",
		Args:        cobra.ExactArgs(1),
		Annotations: skipSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			brand, err := c.app.Catalog.GetBrand(cmd.Context(), args[0])
			if err != nil {
				return err //nolint:wrapcheck
			}

			return c.print(cmd, brandsView([]domain.Brand{brand}))
		},
	}

	cmd.AddCommand(listCmd, getCmd)

	return cmd
}
