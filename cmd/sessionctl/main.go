package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"

	"github.com/finacct/go-session-client/internal/config"
	"github.com/finacct/go-session-client/session"
	"github.com/finacct/go-session-client/tokenstore"
	"github.com/finacct/go-session-client/tokenstore/filestorage"
	"github.com/finacct/go-session-client/tokenstore/redisstorage"
	"github.com/finacct/go-session-client/tokenstore/storagefake"
)

const usage = `usage: sessionctl <command> [args]

commands:
  login <email> <password>   authenticate and store the token pair
  refresh                    exchange the stored refresh token
  whoami                     print the derived session state
  logout                     clear the stored token pair
`

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	store, err := newTokenStore(c)
	if err != nil {
		return err
	}

	sessions, err := session.NewService(c.GetAPIBaseURL(), store, session.WithNavigator(consoleNavigator{}))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if len(os.Args) < 2 {
		fmt.Print(usage)
		return nil
	}
	return execute(ctx, sessions, store, os.Args[1], os.Args[2:])
}

func execute(ctx context.Context, sessions *session.Service, store *tokenstore.Store, command string, args []string) error {
	switch command {
	case "login":
		if len(args) != 2 {
			return errors.New("login needs <email> <password>")
		}
		state, err := sessions.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Logged in (company: %s)\n", orNone(state.CompanyID))
		return nil
	case "refresh":
		if _, err := sessions.RefreshToken(ctx); err != nil {
			return err
		}
		fmt.Println("Token pair refreshed")
		return nil
	case "whoami":
		printSession(sessions, store)
		return nil
	case "logout":
		sessions.Logout(false)
		fmt.Println("Logged out")
		return nil
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printSession(sessions *session.Service, store *tokenstore.Store) {
	state := sessions.CurrentState()
	if !state.LoggedIn {
		fmt.Println("Not logged in")
		return
	}
	claims := store.DecodeAccessToken()
	fmt.Printf("Logged in as %s (company: %s)\n", claims.Email, orNone(state.CompanyID))
}

func newTokenStore(c config.Config) (*tokenstore.Store, error) {
	var (
		storage tokenstore.Storage
		err     error
	)
	switch c.GetStorageBackend() {
	case "memory":
		storage = storagefake.NewFakeStorage()
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     c.GetRedisAddr(),
			Password: c.GetRedisPassword(),
			DB:       c.GetRedisDB(),
		})
		storage, err = redisstorage.New(client)
	default:
		storage, err = filestorage.New(filepath.Join(c.GetDataFolder(), "tokens.json"))
	}
	if err != nil {
		return nil, err
	}
	return tokenstore.NewStore(storage, c.GetAccessTokenKey(), c.GetRefreshTokenKey())
}

// consoleNavigator prints the navigation side effects the session layer
// emits; a CLI has no router to hand them to.
type consoleNavigator struct{}

func (consoleNavigator) Navigate(path string) {
	fmt.Printf("-> %s\n", path)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
