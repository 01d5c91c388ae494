package ui

import (
	"fmt"
	"strings"
)

// View identifies one screen.
type View int

const (
	ViewLibrary View = iota
	ViewMissing
	ViewQueue
	ViewCalendar
	ViewUnmonitored
	ViewStatus
	ViewSearch
)

var viewOrder = []View{ViewLibrary, ViewMissing, ViewQueue, ViewCalendar, ViewUnmonitored, ViewStatus, ViewSearch}

var viewNames = map[View]string{
	ViewLibrary:     "library",
	ViewMissing:     "missing",
	ViewQueue:       "queue",
	ViewCalendar:    "calendar",
	ViewUnmonitored: "unmonitored",
	ViewStatus:      "status",
	ViewSearch:      "search",
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return fmt.Sprintf("view(%d)", int(v))
}

// Title is the pane title shown for the view.
func (v View) Title() string {
	switch v {
	case ViewSearch:
		return "Search & Add"
	default:
		name := v.String()
		return strings.ToUpper(name[:1]) + name[1:]
	}
}

// ParseView maps a subcommand name to a View.
func ParseView(name string) (View, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for v, n := range viewNames {
		if n == name {
			return v, nil
		}
	}
	return ViewLibrary, fmt.Errorf("unknown view %q", name)
}

func (v View) next() View {
	for i, candidate := range viewOrder {
		if candidate == v {
			return viewOrder[(i+1)%len(viewOrder)]
		}
	}
	return ViewLibrary
}

func (v View) prev() View {
	for i, candidate := range viewOrder {
		if candidate == v {
			return viewOrder[(i+len(viewOrder)-1)%len(viewOrder)]
		}
	}
	return ViewLibrary
}
