package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	s := a.session.Session()
	if s.User == nil {
		return ""
	}
	status := s.User.Email
	if s.IsPro() {
		status += " pro"
	} else {
		status += fmt.Sprintf(" free:%d", s.User.SearchesRemaining)
	}
	return fmt.Sprintf("(%s)", status)
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to Pocket Pricer CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("pricer %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: status, check, packages, buy, restore, price, history, fav, theme, open, resume, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, verify, social, theme, price, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "verify":
			a.Verify(ctx)
		case "social":
			a.Social(ctx)
		case "logout":
			a.Logout(ctx)
		case "status":
			a.Status(ctx)
		case "check":
			a.Check(ctx)
		case "packages":
			a.Packages(ctx)
		case "buy":
			a.Buy(ctx, args)
		case "restore":
			a.Restore(ctx)
		case "price":
			a.Price(ctx)
		case "history":
			a.History(ctx, args)
		case "fav":
			a.Favorites(ctx, args)
		case "theme":
			a.Theme(ctx, args)
		case "open":
			if len(args) == 0 {
				fmt.Println("Usage: open <url>")
				continue
			}
			a.Open(ctx, args[0])
		case "resume":
			a.Resume(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
