package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/zatekoja/ayucare/internal/calendar"
	"github.com/zatekoja/ayucare/internal/directory"
	"github.com/zatekoja/ayucare/internal/domain/entities"
)

func rating(r *float64) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *r)
}

func renderDoctors(out io.Writer, doctors []*entities.Doctor) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIALTY\tRATING")
	for _, d := range doctors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Specialty, rating(d.Rating))
	}
	tw.Flush()
}

func renderDoctorDetail(out io.Writer, d *entities.Doctor) {
	fmt.Fprintln(out, d.Name)
	if d.Specialty != "" {
		fmt.Fprintf(out, "%s", d.Specialty)
		if d.Degree != "" {
			fmt.Fprintf(out, ", %s", d.Degree)
		}
		fmt.Fprintln(out)
	}
	if d.Expression != "" {
		fmt.Fprintf(out, "%q\n", d.Expression)
	}
	if d.ExperienceYears != nil {
		fmt.Fprintf(out, "Experience: %d years\n", *d.ExperienceYears)
	}
	if d.PatientsCount != "" {
		fmt.Fprintf(out, "Patients: %s\n", d.PatientsCount)
	}
	if d.Rating != nil {
		reviews := 0
		if d.ReviewsCount != nil {
			reviews = *d.ReviewsCount
		}
		fmt.Fprintf(out, "Rating: %s (%d reviews)\n", rating(d.Rating), reviews)
	}
	if len(d.Services) > 0 {
		fmt.Fprintf(out, "Services: %s\n", strings.Join(d.Services, ", "))
	}
	if d.About != "" {
		fmt.Fprintf(out, "\n%s\n", d.About)
	}
}

// renderCalendar prints a Sunday-first month grid; past days show as "--"
func renderCalendar(out io.Writer, m calendar.Month, now time.Time) {
	fmt.Fprintln(out, m.Label())
	fmt.Fprintln(out, " Su Mo Tu We Th Fr Sa")
	for _, week := range m.Weeks(now) {
		var b strings.Builder
		for _, c := range week {
			switch {
			case c.Blank():
				b.WriteString("   ")
			case c.Disabled:
				b.WriteString(" --")
			default:
				fmt.Fprintf(&b, " %2d", c.Day)
			}
		}
		fmt.Fprintln(out, b.String())
	}
}

func renderSlots(out io.Writer) {
	fmt.Fprintln(out, "Time slots")
	for _, s := range entities.TimeSlots {
		fmt.Fprintf(out, "  %s\n", s)
	}
}

func renderAppointments(out io.Writer, views []*entities.AppointmentView, tab directory.Tab, role entities.Role) {
	if len(views) == 0 {
		fmt.Fprintf(out, "No %s appointments.\n", tab)
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if role == entities.RoleDoctor {
		fmt.Fprintln(tw, "ID\tDATE\tTIME\tPATIENT\tPROBLEM")
	} else {
		fmt.Fprintln(tw, "ID\tDATE\tTIME\tDOCTOR\tSPECIALTY")
	}
	for _, v := range views {
		if role == entities.RoleDoctor {
			name := v.PatientName
			if v.Patient != nil && v.Patient.Name != "" {
				name = v.Patient.Name
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.ID, v.Date, v.Time, name, v.PatientProblem)
			continue
		}
		name, specialty := v.DoctorName, ""
		if v.Doctor != nil {
			if v.Doctor.Name != "" {
				name = v.Doctor.Name
			}
			specialty = v.Doctor.Specialty
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.ID, v.Date, v.Time, name, specialty)
	}
	tw.Flush()
}

func renderProfile(out io.Writer, u *entities.SessionUser) {
	fmt.Fprintf(out, "%s (%s)\n", u.Name, u.Role)
	fmt.Fprintf(out, "Email: %s\nMobile: %s\n", u.Email, u.Mobile)
	if u.Gender != "" {
		fmt.Fprintf(out, "Gender: %s\n", u.Gender)
	}
	if u.IsPatient() {
		if u.Age != nil {
			fmt.Fprintf(out, "Age: %d\n", *u.Age)
		}
		if u.Height != nil {
			fmt.Fprintf(out, "Height: %g\n", *u.Height)
		}
		if u.Weight != nil {
			fmt.Fprintf(out, "Weight: %g\n", *u.Weight)
		}
		if u.Problem != "" {
			fmt.Fprintf(out, "Problem: %s\n", u.Problem)
		}
		return
	}
	if u.Specialty != "" {
		fmt.Fprintf(out, "Specialty: %s\n", u.Specialty)
	}
	if u.Degree != "" {
		fmt.Fprintf(out, "Degree: %s\n", u.Degree)
	}
	if u.Rating != nil {
		fmt.Fprintf(out, "Rating: %s\n", rating(u.Rating))
	}
	if u.Available != nil {
		fmt.Fprintf(out, "Available: %t\n", *u.Available)
	}
}
