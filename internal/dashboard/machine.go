package dashboard

import "fmt"

// Screen is the dashboard screen currently rendered.
type Screen int

const (
	ScreenList Screen = iota
	ScreenInfo
	ScreenCheckIn
	ScreenGallery
	ScreenCalendar
	ScreenProfile
)

func (s Screen) String() string {
	switch s {
	case ScreenList:
		return "list"
	case ScreenInfo:
		return "info"
	case ScreenCheckIn:
		return "checkIn"
	case ScreenGallery:
		return "gallery"
	case ScreenCalendar:
		return "calendar"
	case ScreenProfile:
		return "profile"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// Event is a user action that may move the machine.
type Event int

const (
	EventOpenInfo Event = iota
	EventOpenCheckIn
	EventOpenCalendar
	EventOpenProfile
	EventOpenGallery
	EventBack
	EventToggle
)

func (e Event) String() string {
	switch e {
	case EventOpenInfo:
		return "openInfo"
	case EventOpenCheckIn:
		return "openCheckIn"
	case EventOpenCalendar:
		return "openCalendar"
	case EventOpenProfile:
		return "openProfile"
	case EventOpenGallery:
		return "openGallery"
	case EventBack:
		return "back"
	case EventToggle:
		return "toggle"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// ViewState is the screen plus the active child and activity. Zero IDs
// mean none is active.
type ViewState struct {
	Screen     Screen
	ChildID    int64
	ActivityID int64
}

// HasChild reports whether a child is active.
func (v ViewState) HasChild() bool { return v.ChildID != 0 }

// Next applies ev. childID is used by OpenInfo and OpenCheckIn,
// activityID by OpenGallery. An illegal event returns the unchanged state
// and an error wrapping ErrInvalidTransition.
func (v ViewState) Next(ev Event, childID, activityID int64) (ViewState, error) {
	deny := func() (ViewState, error) {
		return v, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, v.Screen)
	}

	switch v.Screen {
	case ScreenList:
		switch ev {
		case EventOpenInfo, EventOpenCheckIn:
			if childID == 0 {
				return deny()
			}
			next := ScreenInfo
			if ev == EventOpenCheckIn {
				next = ScreenCheckIn
			}
			return ViewState{Screen: next, ChildID: childID}, nil
		case EventOpenCalendar:
			return ViewState{Screen: ScreenCalendar}, nil
		case EventOpenProfile:
			return ViewState{Screen: ScreenProfile}, nil
		case EventToggle:
			return v, nil
		}
		return deny()

	case ScreenInfo, ScreenProfile:
		if ev == EventBack {
			return ViewState{Screen: ScreenList}, nil
		}
		return deny()

	case ScreenCheckIn:
		switch ev {
		case EventOpenGallery:
			if !v.HasChild() || activityID == 0 {
				return deny()
			}
			return ViewState{Screen: ScreenGallery, ChildID: v.ChildID, ActivityID: activityID}, nil
		case EventOpenCalendar:
			return ViewState{Screen: ScreenCalendar, ChildID: v.ChildID}, nil
		case EventBack:
			return ViewState{Screen: ScreenList}, nil
		}
		return deny()

	case ScreenGallery:
		if ev == EventBack {
			return ViewState{Screen: ScreenCheckIn, ChildID: v.ChildID}, nil
		}
		return deny()

	case ScreenCalendar:
		if ev == EventBack {
			if v.HasChild() {
				return ViewState{Screen: ScreenCheckIn, ChildID: v.ChildID}, nil
			}
			return ViewState{Screen: ScreenList}, nil
		}
		return deny()

	default:
		return deny()
	}
}

// staffScreens are the screens the staff dashboard can show.
var staffScreens = map[Screen]bool{
	ScreenList:     true,
	ScreenCalendar: true,
	ScreenProfile:  true,
}
