package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/api"
)

// Test seams for the interactive prompts.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) promptCredentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

// reportAuthError prints a business rejection verbatim and anything else as a
// generic failure.
func reportAuthError(err error) {
	if be := api.AsBusiness(err); be != nil {
		if be.DeviceLimitReached {
			fmt.Println("Device limit reached:", be.Message)
			return
		}
		fmt.Println("Rejected:", be.Message)
		return
	}
	fmt.Println("Error:", err)
}

func (a *App) Login(ctx context.Context) {
	email, password, err := a.promptCredentials()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if err := a.session.Login(ctx, email, password); err != nil {
		reportAuthError(err)
		return
	}
	fmt.Println("Logged in as", a.session.Session().User.Email)
}

func (a *App) Register(ctx context.Context) {
	email, password, err := a.promptCredentials()
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	res, err := a.session.Signup(ctx, email, password)
	if err != nil {
		reportAuthError(err)
		return
	}
	if res.RequiresVerification {
		fmt.Println("Verification code sent to", res.Email, "- run 'verify' to finish")
		return
	}
	fmt.Println("Account created, logged in as", res.User.Email)
}

func (a *App) Verify(ctx context.Context) {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	code, err := getSimpleText(a.reader, "Enter verification code", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if err := a.session.VerifyEmail(ctx, email, code); err != nil {
		reportAuthError(err)
		return
	}
	fmt.Println("Email verified, logged in as", a.session.Session().User.Email)
}

// Social simulates a provider-issued identity. A real mobile shell would get
// these claims from the Google/Apple SDK.
func (a *App) Social(ctx context.Context) {
	provider, err := getSimpleText(a.reader, "Provider (google/apple)", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	id, err := getSimpleText(a.reader, "Provider account id", os.Stdout)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	identity := api.SocialIdentity{Provider: provider, Email: email}
	switch provider {
	case "google":
		identity.GoogleID = id
	case "apple":
		identity.AppleID = id
	default:
		fmt.Println("Unsupported provider:", provider)
		return
	}

	if err := a.session.SocialLogin(ctx, identity); err != nil {
		reportAuthError(err)
		return
	}
	fmt.Println("Logged in as", a.session.Session().User.Email)
}

func (a *App) Logout(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Println("Not logged in")
		return
	}
	a.session.Logout(ctx)
	fmt.Println("Logged out")
}
