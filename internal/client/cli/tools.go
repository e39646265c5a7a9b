package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/history"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/pricing"
)

// defaultFeeRate approximates the combined marketplace and payment fee on
// the big resale platforms.
const defaultFeeRate = 0.13

func (a *App) promptFloat(prompt string) (float64, error) {
	text, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", text)
	}
	return v, nil
}

// Price estimates resale profit for one item and records the lookup in the
// local scan history.
func (a *App) Price(ctx context.Context) {
	query, err := getSimpleText(a.reader, "Product name", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	price, err := a.promptFloat("Expected sale price")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	cost, err := a.promptFloat("Your cost")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	shipping, err := a.promptFloat("Shipping cost")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	l := pricing.Listing{Price: price, Cost: cost, FeeRate: defaultFeeRate, Shipping: shipping}
	fmt.Printf("Fees:   $%.2f\n", l.Fees())
	fmt.Printf("Profit: $%.2f\n", l.Profit())
	fmt.Printf("Margin: %.1f%%\n", l.Margin()*100)

	err = a.history.AddSearch(ctx, &history.Search{
		Query:        query,
		ProductTitle: query,
		ListingPrice: price,
		ItemCost:     cost,
		EstProfit:    l.Profit(),
		EstMargin:    l.Margin(),
		ResultCount:  1,
	})
	if err != nil {
		a.log.Warn(ctx, "recording search failed", "error", err)
	}
}

func (a *App) History(ctx context.Context, args []string) {
	if len(args) > 0 && args[0] == "clear" {
		if err := a.history.ClearSearches(ctx); err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("History cleared")
		return
	}

	searches, err := a.history.RecentSearches(ctx, 20)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if len(searches) == 0 {
		fmt.Println("No searches yet")
		return
	}
	for _, s := range searches {
		fmt.Printf("%s\t%s\t$%.2f -> $%.2f profit (%.1f%%)\n",
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.Query, s.ListingPrice, s.EstProfit, s.EstMargin*100)
	}
}

func (a *App) Favorites(ctx context.Context, args []string) {
	if len(args) == 0 {
		favs, err := a.history.Favorites(ctx)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		if len(favs) == 0 {
			fmt.Println("No favorites yet")
			return
		}
		for _, f := range favs {
			fmt.Printf("%s\t%s\t$%.2f\n", f.ProductID, f.Title, f.Price)
		}
		return
	}

	switch args[0] {
	case "add":
		productID, err := getSimpleText(a.reader, "Product id", os.Stdout)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		title, err := getSimpleText(a.reader, "Title", os.Stdout)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		price, err := a.promptFloat("Price")
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		if err := a.history.AddFavorite(ctx, &history.Favorite{ProductID: productID, Title: title, Price: price}); err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("Saved")
	case "rm":
		if len(args) < 2 {
			fmt.Println("Usage: fav rm <product-id>")
			return
		}
		if err := a.history.RemoveFavorite(ctx, args[1]); err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Println("Removed")
	default:
		fmt.Println("Usage: fav [add|rm <product-id>]")
	}
}

func (a *App) Theme(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Theme:", a.store.ThemeMode(ctx))
		return
	}
	a.store.SetThemeMode(ctx, args[0])
	fmt.Println("Theme:", a.store.ThemeMode(ctx))
}
