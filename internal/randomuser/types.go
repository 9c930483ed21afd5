package randomuser

import (
	"strings"
	"time"
)

// Column identifiers understood by User.Value and by the API's sort and filter
// parameters.
const (
	ColumnName   = "name"
	ColumnGender = "gender"
	ColumnEmail  = "email"
	ColumnPhone  = "phone"
	ColumnNat    = "nat"
)

// Response mirrors the payload returned by the users endpoint.
type Response struct {
	Results []User `json:"results"`
	Info    Info   `json:"info"`
	Error   string `json:"error,omitempty"`
}

// Info carries paging metadata. Total is absent on randomuser.me itself.
type Info struct {
	Seed    string `json:"seed"`
	Results int    `json:"results"`
	Page    int    `json:"page"`
	Version string `json:"version"`
	Total   *int   `json:"total,omitempty"`
}

// User is one directory entry.
type User struct {
	Gender     string     `json:"gender"`
	Name       Name       `json:"name"`
	Email      string     `json:"email"`
	Login      Login      `json:"login"`
	Phone      string     `json:"phone"`
	Nat        string     `json:"nat"`
	Picture    Picture    `json:"picture"`
	Registered Registered `json:"registered"`
}

// Name is the structured user name.
type Name struct {
	Title string `json:"title"`
	First string `json:"first"`
	Last  string `json:"last"`
}

// Full returns "First Last".
func (n Name) Full() string {
	return strings.TrimSpace(strings.TrimSpace(n.First) + " " + strings.TrimSpace(n.Last))
}

// Login holds the stable identifier.
type Login struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
}

// Picture holds avatar URLs.
type Picture struct {
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Thumbnail string `json:"thumbnail"`
}

// Registered describes when the account was created.
type Registered struct {
	Date string `json:"date"`
	Age  int    `json:"age"`
}

// RowKey implements table.Record.
func (u User) RowKey() string {
	return u.Login.UUID
}

// Value implements table.Record.
func (u User) Value(column string) string {
	switch column {
	case ColumnName:
		return u.Name.Full()
	case ColumnGender:
		return u.Gender
	case ColumnEmail:
		return u.Email
	case ColumnPhone:
		return u.Phone
	case ColumnNat:
		return u.Nat
	default:
		return ""
	}
}

// ParsedRegistered returns the registration timestamp, or the zero time.
func (u User) ParsedRegistered() time.Time {
	return parseTime(u.Registered.Date)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
