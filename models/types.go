package models

// CSV column names, in file order
const (
	ColumnID                   = "id"
	ColumnName                 = "name"
	ColumnEmail                = "email"
	ColumnInterests            = "interests"
	ColumnLookingToConnectWith = "looking_to_connect_with"
)

// Columns is the header row of the attendee table.
var Columns = []string{ColumnID, ColumnName, ColumnEmail, ColumnInterests, ColumnLookingToConnectWith}

// Domain types

// Profile is what an attendee submits. It becomes an Attendee once the
// store assigns it an ID.
type Profile struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Interests            string `json:"interests"`
	LookingToConnectWith string `json:"looking_to_connect_with"`
}

type Attendee struct {
	ID                   int    `json:"id"`
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Interests            string `json:"interests"`
	LookingToConnectWith string `json:"looking_to_connect_with"`
}

// NewAttendee attaches id to p.
func NewAttendee(id int, p Profile) Attendee {
	return Attendee{
		ID:                   id,
		Name:                 p.Name,
		Email:                p.Email,
		Interests:            p.Interests,
		LookingToConnectWith: p.LookingToConnectWith,
	}
}

// GroupingUser returns the subset of a that is sent to the grouping service.
func (a Attendee) GroupingUser() GroupingUser {
	return GroupingUser{
		Name:                 a.Name,
		Email:                a.Email,
		Interests:            a.Interests,
		LookingToConnectWith: a.LookingToConnectWith,
	}
}

// Grouping service types

type GroupingUser struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Interests            string `json:"interests"`
	LookingToConnectWith string `json:"looking_to_connect_with"`
}

type GroupingRequest struct {
	Users []GroupingUser `json:"users"`
	Query string         `json:"query"`
}

// GroupingResponse carries either Error or Groups, never both. A
// successful response has a non-nil Groups slice, possibly empty.
type GroupingResponse struct {
	Error  string  `json:"error,omitempty"`
	Groups []Group `json:"groups,omitempty"`
}

// Failed reports whether the response carries no usable groups.
func (r GroupingResponse) Failed() bool {
	return r.Error != "" || r.Groups == nil
}

type Group struct {
	Name    string   `json:"name"`
	Reason  string   `json:"reason"`
	Members []Member `json:"members"`
}

type Member struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GroupingUsers converts attendees into the grouping request payload,
// preserving order.
func GroupingUsers(attendees []Attendee) []GroupingUser {
	users := make([]GroupingUser, 0, len(attendees))
	for _, a := range attendees {
		users = append(users, a.GroupingUser())
	}
	return users
}

// HTTP response types

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
