package domain

import "time"

// ScopeWholeKindergarten labels events that are not tied to a group.
const ScopeWholeKindergarten = "Hele barnehagen"

type KindergartenEvent struct {
	ID          int64
	Start       time.Time
	End         *time.Time
	Title       string
	Description string
	Location    string
	Scope       string
	GroupID     *int64
}

type DaycareGroup struct {
	ID          int64
	Name        string
	Description string
	Children    []StaffChild
}
