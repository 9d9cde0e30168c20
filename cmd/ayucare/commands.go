package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zatekoja/ayucare/internal/calendar"
	"github.com/zatekoja/ayucare/internal/client"
	"github.com/zatekoja/ayucare/internal/directory"
	"github.com/zatekoja/ayucare/internal/domain/entities"
)

var errSignInRequired = errors.New("Please sign in first.")

// splitID pulls the leading positional argument so flags may follow it
func splitID(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return args[0], args[1:]
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (a *app) signedIn() (*entities.SessionUser, error) {
	user := a.session.Current()
	if user == nil {
		return nil, errSignInRequired
	}
	return user, nil
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := newFlagSet("signup")
	var req client.SignupRequest
	var role string
	fs.StringVar(&req.Name, "name", "", "full name")
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.Mobile, "mobile", "", "mobile number")
	fs.StringVar(&req.Password, "password", "", "password")
	fs.StringVar(&role, "role", string(entities.RolePatient), "patient or doctor")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	req.Role = entities.Role(role)

	msg, err := a.api.Signup(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *app) signin(ctx context.Context, args []string) error {
	fs := newFlagSet("signin")
	identifier := fs.String("id", "", "email or mobile")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	user, err := a.api.Signin(ctx, *identifier, *password)
	if err != nil {
		return err
	}
	if err := a.session.Set(user); err != nil {
		return fmt.Errorf("signed in but could not save the session: %w", err)
	}
	fmt.Fprintf(a.out, "Sign in successful. Welcome, %s.\n", user.Name)
	return nil
}

func (a *app) logout() error {
	if err := a.session.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *app) whoami() error {
	user, err := a.signedIn()
	if err != nil {
		return err
	}
	renderProfile(a.out, user)
	return nil
}

func (a *app) home(ctx context.Context) error {
	doctors, err := a.api.ListDoctors(ctx)
	if err != nil {
		return err
	}
	count, err := a.api.CountPatients(ctx)
	if err != nil {
		return err
	}

	stats := directory.ComputeHomeStats(doctors, count)
	fmt.Fprintf(a.out, "Doctors: %d  Patients: %d  Average rating: %.1f\n\n", stats.TotalDoctors, stats.TotalPatients, stats.AvgRating)
	fmt.Fprintln(a.out, "Top rated")
	renderDoctors(a.out, directory.TopRated(doctors))
	return nil
}

func (a *app) doctors(ctx context.Context, args []string) error {
	fs := newFlagSet("doctors")
	query := fs.String("q", "", "name or specialty contains")
	specialty := fs.String("specialty", directory.AllSpecialties, "exact specialty")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	all, err := a.api.ListDoctors(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Specialties: %s\n\n", strings.Join(directory.Specialties(all), ", "))
	doctors := directory.Filter(all, *query, *specialty)
	if len(doctors) == 0 {
		fmt.Fprintln(a.out, "No doctors found.")
		return nil
	}
	renderDoctors(a.out, doctors)
	return nil
}

func (a *app) doctor(ctx context.Context, args []string) error {
	id, rest := splitID(args)
	fs := newFlagSet("doctor")
	monthFlag := fs.String("month", "", "calendar month YYYY-MM (default current)")
	if err := fs.Parse(rest); err != nil || id == "" {
		return errUsage
	}

	now := a.now()
	month := calendar.MonthOf(now)
	if *monthFlag != "" {
		t, err := time.ParseInLocation("2006-01", *monthFlag, now.Location())
		if err != nil {
			return fmt.Errorf("invalid month %q, want YYYY-MM", *monthFlag)
		}
		month = calendar.MonthOf(t)
	}

	doc, err := a.api.GetDoctor(ctx, id)
	if err != nil {
		return err
	}
	renderDoctorDetail(a.out, doc)
	fmt.Fprintln(a.out)
	renderCalendar(a.out, month, now)
	fmt.Fprintln(a.out)
	renderSlots(a.out)
	return nil
}

func (a *app) book(ctx context.Context, args []string) error {
	doctorID, rest := splitID(args)
	fs := newFlagSet("book")
	date := fs.String("date", "", "YYYY-MM-DD")
	slot := fs.String("slot", "", "one of the listed time slots")
	problem := fs.String("problem", "", "short description of the problem")
	if err := fs.Parse(rest); err != nil || doctorID == "" {
		return errUsage
	}

	user, err := a.signedIn()
	if err != nil {
		return err
	}

	form := calendar.NewBooking(a.now)
	if *date != "" {
		day, err := time.ParseInLocation(entities.DateLayout, *date, a.now().Location())
		if err != nil {
			return fmt.Errorf("invalid date %q, want YYYY-MM-DD", *date)
		}
		form.ShowMonth(calendar.MonthOf(day))
		if err := form.SelectDate(day.Day()); err != nil {
			return err
		}
	}
	if *slot != "" {
		if err := form.SelectSlot(*slot); err != nil {
			return err
		}
	}
	form.SetProblem(*problem)

	sel, err := form.Submit(user.Role)
	if err != nil {
		return err
	}

	appt, err := a.api.CreateAppointment(ctx, client.BookingRequest{
		PatientID:      user.ProfileID,
		DoctorID:       doctorID,
		Date:           sel.Date,
		Time:           sel.Time,
		PatientProblem: sel.Problem,
	})
	if err != nil {
		return err
	}
	form.Done()

	fmt.Fprintf(a.out, "Appointment booked successfully. %s at %s with %s (id %s)\n", appt.Date, appt.Time, appt.DoctorName, appt.ID)
	return nil
}

func (a *app) appointments(ctx context.Context, args []string) error {
	fs := newFlagSet("appointments")
	tabFlag := fs.String("tab", string(directory.TabUpcoming), "upcoming, completed or cancelled")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	return a.listTab(ctx, *tabFlag)
}

func (a *app) listTab(ctx context.Context, tabName string) error {
	tab, err := directory.ParseTab(tabName)
	if err != nil {
		return err
	}
	user, err := a.signedIn()
	if err != nil {
		return err
	}

	views, err := a.api.ListAppointments(ctx, user.ID, user.Role)
	if err != nil {
		return err
	}
	renderAppointments(a.out, directory.ForTab(views, tab), tab, user.Role)
	return nil
}

func (a *app) cancel(ctx context.Context, args []string) error {
	id, rest := splitID(args)
	fs := newFlagSet("cancel")
	tabFlag := fs.String("tab", string(directory.TabUpcoming), "tab to show afterwards")
	if err := fs.Parse(rest); err != nil || id == "" {
		return errUsage
	}
	if _, err := a.signedIn(); err != nil {
		return err
	}

	if _, err := a.api.UpdateStatus(ctx, id, entities.AppointmentStatusCancelled); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Appointment cancelled.")
	return a.listTab(ctx, *tabFlag)
}
