package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/entitlement"
)

// Status re-fetches the authoritative user record and prints the account
// state alongside the cached provider snapshot.
func (a *App) Status(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return
	}
	if err := a.session.RefreshUser(ctx); err != nil {
		fmt.Println("Could not refresh account:", err)
	}
	s := a.session.Session()
	if s.User == nil {
		fmt.Println("Session expired, please log in again")
		return
	}
	fmt.Println("Email:              ", s.User.Email)
	fmt.Println("Subscription status:", s.User.SubscriptionStatus)
	if !s.IsPro() {
		fmt.Println("Searches remaining: ", s.User.SearchesRemaining)
	}
	if snap := a.ent.Snapshot(); len(snap.ActiveEntitlements) > 0 {
		fmt.Println("Provider entitlements:", snap.ActiveEntitlements)
	}

	sub, err := a.api.SubscriptionCheck(ctx, s.Token)
	if err != nil {
		a.log.Debug(ctx, "subscription record unavailable", "error", err)
		return
	}
	if sub.CancelAtPeriodEnd {
		fmt.Println("Cancels at period end:", sub.PeriodEndDate)
	} else if sub.PeriodEndDate != "" {
		fmt.Println("Renews:", sub.PeriodEndDate)
	}
}

// Check runs a full reconciliation and reports the resulting state.
func (a *App) Check(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return
	}
	if err := a.session.CheckSubscription(ctx); err != nil {
		fmt.Println("Subscription check failed:", err)
		return
	}
	s := a.session.Session()
	if s.IsPro() {
		fmt.Println("Subscription active: pro features unlocked")
	} else {
		fmt.Println("No active subscription")
	}
}

func (a *App) Packages(ctx context.Context) {
	pkgs := a.ent.Packages()
	if len(pkgs) == 0 {
		fmt.Println("No packages available")
		return
	}
	for _, p := range pkgs {
		fmt.Printf("%s\t%s\t%s\n", p.ID, p.Price, p.Period)
	}
}

func (a *App) Buy(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: buy <package-id>")
		return
	}
	err := a.ent.Purchase(ctx, args[0])
	switch {
	case errors.Is(err, entitlement.ErrPurchaseCancelled):
		// User backed out, stay quiet.
		return
	case errors.Is(err, entitlement.ErrNotConfigured):
		fmt.Println("Purchases are not available in this build")
		return
	case err != nil:
		fmt.Println("Purchase failed:", err)
		return
	}
	fmt.Println("Purchase complete, reconciling...")
	a.Check(ctx)
}

func (a *App) Restore(ctx context.Context) {
	err := a.ent.Restore(ctx)
	switch {
	case errors.Is(err, entitlement.ErrNoActiveSubscriptions):
		fmt.Println("No purchases to restore")
		return
	case errors.Is(err, entitlement.ErrNotConfigured):
		fmt.Println("Restore is not available in this build")
		return
	case err != nil:
		fmt.Println("Restore failed:", err)
		return
	}
	fmt.Println("Purchases restored, reconciling...")
	a.Check(ctx)
}

// Open simulates the app being opened via a deep link while running.
func (a *App) Open(ctx context.Context, url string) {
	if err := a.session.HandleURL(ctx, url); err != nil {
		fmt.Println("Deep link handling failed:", err)
		return
	}
	fmt.Println("Handled", url)
}

// Resume simulates the app returning to the foreground.
func (a *App) Resume(ctx context.Context) {
	if err := a.session.OnResume(ctx); err != nil {
		fmt.Println("Resume check failed:", err)
		return
	}
	fmt.Println("Resumed")
}
