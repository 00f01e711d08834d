package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/spec-kit/tutorhub-client/internal/api"
	"github.com/spec-kit/tutorhub-client/internal/config"
	"github.com/spec-kit/tutorhub-client/internal/domain"
	"github.com/spec-kit/tutorhub-client/internal/observability"
	"github.com/spec-kit/tutorhub-client/internal/session"
	"github.com/spec-kit/tutorhub-client/internal/transport"
)

const usage = `tutorhub - tutoring marketplace client

Account:
  login -email -password       sign in and persist the session
  register -name -email -password -role
  logout                       clear the session
  whoami                       show the current session

Browsing (no login needed):
  teachers                     list tutors
  teacher -id                  show one tutor
  availability -teacher        open slots for a tutor

Student:
  book -teacher -slot          reserve a slot
  bookings                     list my bookings
  cancel -id                   cancel a booking
  pay -booking [-settle s]     checkout (settle: success|cancel)
  payments                     my payment history

Teacher:
  slots                        my availability, booked or open
  slot-add -start -end         publish a slot (RFC 3339 times)
  bookings                     my bookings
  cancel-all                   cancel all my open bookings
  complete -id                 mark a booking delivered
  payments                     payments received
  stats                        dashboard aggregates

Other:
  theme [-set light|dark]      persisted display preference
`

// app bundles the wired client pieces every command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   session.Store
	manager *session.Manager
	client  *api.Client
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	store := newStore(cfg, logger)
	manager := session.NewManager(store, cliNavigator{}, logger)

	rt := transport.New(transport.Options{
		Store:          store,
		RefreshURL:     cfg.API.BaseURL + "/auth/refresh-token",
		Logger:         logger,
		OnForcedLogout: manager.Invalidate,
	})
	httpc := &http.Client{Transport: rt, Timeout: cfg.API.RequestTimeout()}
	client := api.New(cfg.API.BaseURL, httpc, logger)

	a := &app{cfg: cfg, logger: logger, store: store, manager: manager, client: client}
	a.manager.Hydrate()

	if err := dispatch(context.Background(), a, os.Args[1], os.Args[2:]); err != nil {
		notify(err)
		os.Exit(1)
	}
}

func newStore(cfg *config.Config, logger *zap.Logger) session.Store {
	switch cfg.Storage.Backend {
	case "memory":
		return session.NewMemoryStore()
	case "redis":
		return session.NewRedisStore(cfg.Redis, logger)
	default:
		return session.NewFileStore(cfg.Storage.Path)
	}
}

func dispatch(ctx context.Context, a *app, name string, args []string) error {
	switch name {
	case "login":
		return cmdLogin(ctx, a, args)
	case "register":
		return cmdRegister(ctx, a, args)
	case "logout":
		a.manager.Logout()
		return nil
	case "whoami":
		return guarded(a, cmdWhoami)(ctx, args)
	case "teachers":
		return cmdTeachers(ctx, a, args)
	case "teacher":
		return cmdTeacher(ctx, a, args)
	case "availability":
		return cmdAvailability(ctx, a, args)
	case "book":
		return guarded(a, cmdBook, domain.RoleStudent)(ctx, args)
	case "bookings":
		return guarded(a, cmdBookings, domain.RoleStudent, domain.RoleTeacher, domain.RoleAdmin)(ctx, args)
	case "cancel":
		return guarded(a, cmdCancel)(ctx, args)
	case "cancel-all":
		return guarded(a, cmdCancelAll, domain.RoleTeacher)(ctx, args)
	case "complete":
		return guarded(a, cmdComplete, domain.RoleTeacher)(ctx, args)
	case "slots":
		return guarded(a, cmdSlots, domain.RoleTeacher)(ctx, args)
	case "slot-add":
		return guarded(a, cmdSlotAdd, domain.RoleTeacher)(ctx, args)
	case "pay":
		return guarded(a, cmdPay, domain.RoleStudent)(ctx, args)
	case "payments":
		return guarded(a, cmdPayments, domain.RoleStudent, domain.RoleTeacher)(ctx, args)
	case "stats":
		return guarded(a, cmdStats, domain.RoleTeacher)(ctx, args)
	case "theme":
		return cmdTheme(ctx, a, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", name)
	}
}

type commandFunc func(ctx context.Context, a *app, sess *domain.Session, args []string) error

// guarded gates a protected command on the route-guard decision for the
// hydrated session.
func guarded(a *app, fn commandFunc, roles ...domain.Role) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		sess, loading := a.manager.Current()
		switch session.Decide(sess, loading, roles...) {
		case session.DecisionAllow:
			return fn(ctx, a, sess, args)
		case session.DecisionRedirectForbidden:
			return fmt.Errorf("not authorized: this command needs one of %v", roles)
		default:
			return fmt.Errorf("not logged in: run `tutorhub login` first")
		}
	}
}

// cliNavigator is the CLI's stand-in for route changes.
type cliNavigator struct{}

func (cliNavigator) ToLogin() {
	fmt.Fprintln(os.Stderr, "Session expired. Run `tutorhub login` to sign in again.")
}

func (cliNavigator) ToRoot() {}

// notify prints a failure as a single-line message, the CLI's toast.
func notify(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
