package domain

type UserProfile struct {
	ID    int64
	Name  string
	Email string
	Phone string
	Role  Role
}

// Session is the logged-in user plus the daycare chosen with an access code.
type Session struct {
	UserID      int64
	UserName    string
	Role        Role
	DaycareID   int64
	DaycareName string
}
