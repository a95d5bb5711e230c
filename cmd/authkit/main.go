package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/car4rent/authkit/internal/authz"
	"github.com/car4rent/authkit/internal/bootstrap"
	domainauth "github.com/car4rent/authkit/internal/domain/auth"
	"github.com/car4rent/authkit/internal/ports"
	"github.com/car4rent/authkit/internal/service"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Auth   *service.AuthService
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		writef(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2)
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1)
	}

	svc, cleanup, err := bootstrap.BuildAuthService(bootstrap.AuthOptions{Config: cfg, Logger: logger})
	if err != nil {
		logger.ErrorContext(context.Background(), "build auth service", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	cmdCtx := &commandContext{Ctx: context.Background(), Logger: logger, Auth: svc}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1)
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Authenticate against the backend and store the session",
			run:         runLogin,
		},
		"register": {
			name:        "register",
			description: "Create an account (does not log in)",
			run:         runRegister,
		},
		"status": {
			name:        "status",
			description: "Show the local session state",
			run:         runStatus,
		},
		"validate": {
			name:        "validate",
			description: "Confirm the stored token with the backend",
			run:         runValidate,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the cached identity, capabilities, and home route",
			run:         runWhoami,
		},
		"logout": {
			name:        "logout",
			description: "Clear the local session",
			run:         runLogout,
		},
	}
}

func printUsage() {
	writef(os.Stdout, "Usage: authkit <command> [flags]\n\n")
	writef(os.Stdout, "Available commands:\n")
	for _, name := range []string{"login", "register", "status", "validate", "whoami", "logout"} {
		c := commands()[name]
		writef(os.Stdout, "  %-10s %s\n", c.name, c.description)
	}
}

func writef(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func runLogin(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("username", "", "account username")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return errors.New("-username is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	id, err := ctx.Auth.Login(ctx.Ctx, *username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writef(os.Stderr, "login failed: %s\n", service.UserMessage(err))
			return err
		}
		return err
	}

	writef(os.Stdout, "logged in as %s (%s)\n", id.Username, authz.DisplayLabel(id))
	writef(os.Stdout, "home route: %s\n", authz.HomeRouteFor(id))
	return nil
}

func runRegister(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	username := fs.String("username", "", "account username")
	email := fs.String("email", "", "account email")
	role := fs.String("role", string(domainauth.RoleRenter), "account role (ADMIN, OWNER, RENTER, ACCOUNTANT)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" {
		return errors.New("-username and -email are required")
	}
	parsedRole, err := domainauth.ParseRole(*role)
	if err != nil {
		return err
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	msg, err := ctx.Auth.Register(ctx.Ctx, ports.RegisterInput{
		Username: *username,
		Email:    *email,
		Password: password,
		Role:     parsedRole,
	})
	if err != nil {
		if errors.Is(err, service.ErrRegistrationFailed) {
			writef(os.Stderr, "registration failed: %s\n", service.UserMessage(err))
			return err
		}
		return err
	}

	writef(os.Stdout, "%s\n", msg)
	return nil
}

func runStatus(ctx *commandContext, _ []string) error {
	state := ctx.Auth.State(ctx.Ctx)
	writef(os.Stdout, "session state: %s\n", state)

	if hint, ok := ctx.Auth.IdentityHint(ctx.Ctx); ok && state == domainauth.StateTokenUnverified {
		writef(os.Stdout, "token hint (unverified): sub=%s email=%s\n", hint.Subject, hint.Email)
	}
	return nil
}

func runValidate(ctx *commandContext, _ []string) error {
	if ctx.Auth.EnsureValid(ctx.Ctx) {
		writef(os.Stdout, "token is valid\n")
		return nil
	}
	writef(os.Stdout, "token is not valid; session cleared\n")
	return nil
}

func runWhoami(ctx *commandContext, _ []string) error {
	id, ok := ctx.Auth.CurrentIdentity(ctx.Ctx)
	if !ok {
		writef(os.Stdout, "not logged in\n")
		return nil
	}

	writef(os.Stdout, "user:       %s <%s>\n", id.Username, id.Email)
	writef(os.Stdout, "roles:      %v\n", id.Roles)
	writef(os.Stdout, "label:      %s\n", authz.DisplayLabel(id))
	writef(os.Stdout, "home route: %s\n", authz.HomeRouteFor(id))
	writef(os.Stdout, "capabilities:\n")
	writef(os.Stdout, "  manage users:     %v\n", authz.CanManageUsers(id))
	writef(os.Stdout, "  manage cars:      %v\n", authz.CanManageCars(id))
	writef(os.Stdout, "  rent cars:        %v\n", authz.CanRentCars(id))
	writef(os.Stdout, "  view bookkeeping: %v\n", authz.CanViewBookkeeping(id))
	return nil
}

func runLogout(ctx *commandContext, _ []string) error {
	if err := ctx.Auth.Logout(ctx.Ctx); err != nil {
		return err
	}
	writef(os.Stdout, "logged out\n")
	return nil
}

// promptPassword reads a password without echoing when stdin is a terminal,
// falling back to a plain line read otherwise (pipes, CI).
func promptPassword(prompt string) (string, error) {
	writef(os.Stderr, "%s", prompt)

	fd := int(syscall.Stdin)
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		writef(os.Stderr, "\n")
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return line, nil
}
