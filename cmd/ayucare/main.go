// Command ayucare is the terminal client for the Ayucare booking API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/ayucare/internal/client"
	"github.com/zatekoja/ayucare/internal/session"
	"github.com/zatekoja/ayucare/pkg/config"
)

const usage = `usage: ayucare <command> [flags]

commands:
  signup -name N -email E -mobile M -password P -role patient|doctor
  signin -id EMAIL_OR_MOBILE -password P
  logout
  whoami
  home
  doctors [-q TEXT] [-specialty S]
  doctor ID [-month YYYY-MM]
  book ID -date YYYY-MM-DD -slot "10:00 AM - 10:15 AM" -problem TEXT
  appointments [-tab upcoming|completed|cancelled]
  cancel APPOINTMENT_ID [-tab upcoming|completed|cancelled]
`

// errUsage makes main print the usage text
var errUsage = errors.New("invalid usage")

type app struct {
	api     *client.HTTPClient
	session *session.Store
	out     io.Writer
	now     func() time.Time
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a := &app{
		api:     client.NewClient(cfg.Client.APIURL),
		session: session.NewStore(cfg.Client.SessionFile, session.DefaultKey),
		out:     os.Stdout,
		now:     time.Now,
	}
	a.session.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	command, rest := args[0], args[1:]

	switch command {
	case "signup":
		return a.signup(ctx, rest)
	case "signin":
		return a.signin(ctx, rest)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami()
	case "home":
		return a.home(ctx)
	case "doctors":
		return a.doctors(ctx, rest)
	case "doctor":
		return a.doctor(ctx, rest)
	case "book":
		return a.book(ctx, rest)
	case "appointments":
		return a.appointments(ctx, rest)
	case "cancel":
		return a.cancel(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	}
	return errUsage
}
