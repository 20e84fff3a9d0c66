package cmd

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"pet-care-portal/internal/domain/products"

	"github.com/spf13/cobra"
)

var (
	prodCategories []string
	prodMin        float64
	prodMax        float64
	prodSort       string
	prodSearch     string
	prodFeatured   bool
	prodLatest     int
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse the shop catalog",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products with the shop filters",
	Long: `List the catalog filtered and sorted like the shop page:
categories are OR-ed, the price range is inclusive and the search term
matches name, brand or description.

Sort keys: latest, price-asc, price-desc, rating.`,
	RunE: withApp(runProductsList),
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsListCmd)

	f := productsListCmd.Flags()
	f.StringSliceVar(&prodCategories, "category", nil, "FOOD, TOYS, MEDICINE, ACCESSORIES or GROOMING (repeatable)")
	f.Float64Var(&prodMin, "min", products.DefaultPriceMin, "minimum price")
	f.Float64Var(&prodMax, "max", products.DefaultPriceMax, "maximum price")
	f.StringVar(&prodSort, "sort", string(products.SortLatest), "sort key")
	f.StringVar(&prodSearch, "search", "", "search term")
	f.BoolVar(&prodFeatured, "featured", false, "only featured products")
	f.IntVar(&prodLatest, "latest", 0, "only the N newest products")
}

func runProductsList(cmd *cobra.Command, _ []string, a *app) error {
	filter := products.DefaultFilter()
	filter.PriceMin, filter.PriceMax = prodMin, prodMax
	filter.SortBy = products.ParseSortKey(prodSort)
	filter.SearchTerm = prodSearch
	for _, s := range prodCategories {
		c, ok := products.ParseCategory(s)
		if !ok {
			return fmt.Errorf("unknown category %q", s)
		}
		filter = products.ToggleCategory(filter, c)
	}

	var (
		list []products.Product
		err  error
	)
	if prodFeatured {
		list, err = a.api.Products.GetFeatured(cmd.Context())
	} else {
		list, err = a.api.Products.GetAll(cmd.Context())
	}
	if err != nil {
		return err
	}
	if prodLatest > 0 {
		list = products.Latest(list, prodLatest)
	}

	return printProducts(cmd.OutOrStdout(), products.Apply(list, filter))
}

func printProducts(w io.Writer, list []products.Product) error {
	if len(list) == 0 {
		printf(w, "No products match the filters\n")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBRAND\tCATEGORY\tPRICE\tRATING\tSTOCK")
	for _, p := range list {
		price := strconv.FormatFloat(p.Price, 'f', 2, 64)
		if p.DiscountPrice != nil && *p.DiscountPrice < p.Price {
			price = strconv.FormatFloat(*p.DiscountPrice, 'f', 2, 64) + " (was " + price + ")"
		}
		rating := "-"
		if p.Rating != nil {
			rating = strconv.FormatFloat(*p.Rating, 'f', 1, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			p.ID, p.Name, orDash(p.Brand), p.Category, price, rating, p.StockQuantity)
	}
	return tw.Flush()
}
