package directory

import (
	"fmt"
	"strings"

	"github.com/zatekoja/ayucare/internal/domain/entities"
)

// Tab is one of the appointment list tabs
type Tab string

const (
	TabUpcoming  Tab = "upcoming"
	TabCompleted Tab = "completed"
	TabCancelled Tab = "cancelled"
)

// Tabs lists the tabs in display order
var Tabs = []Tab{TabUpcoming, TabCompleted, TabCancelled}

// ParseTab accepts a tab name case-insensitively
func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tabs {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q (want upcoming, completed or cancelled)", s)
}

// Status returns the appointment status shown under the tab
func (t Tab) Status() entities.AppointmentStatus {
	switch t {
	case TabCompleted:
		return entities.AppointmentStatusCompleted
	case TabCancelled:
		return entities.AppointmentStatusCancelled
	}
	return entities.AppointmentStatusScheduled
}

// ForTab keeps the appointments whose status belongs to tab, preserving order
func ForTab(views []*entities.AppointmentView, tab Tab) []*entities.AppointmentView {
	status := tab.Status()
	out := make([]*entities.AppointmentView, 0, len(views))
	for _, v := range views {
		if v != nil && v.Status == status {
			out = append(out, v)
		}
	}
	return out
}
