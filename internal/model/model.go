package model

import "gitlab.com/dirk.krummacker/friends-manager/internal/birthday"

// Friend is the data structure for a person that we know.
// All fields with the exception of the Id field are optional. A nil Birthday means that no
// birthday is on record.
type Friend struct {
	Id            int64              `json:"id"`
	FirstName     string             `json:"firstname"`
	LastName      string             `json:"lastname"`
	Birthday      *birthday.Birthday `json:"birthday,omitempty"`
	EmailAddress  string             `json:"email"`
	Nickname      string             `json:"nickname"`
	StreetAddress string             `json:"street"`
	City          string             `json:"city"`
	State         string             `json:"state"`
	Zip           string             `json:"zip"`
	Phone         string             `json:"phone"`
}

// FullName returns the first and last name separated by a space.
func (f Friend) FullName() string {
	return f.FirstName + " " + f.LastName
}

// SetBirthday stores the birthday for the given month and day. Invalid values are normalized
// by birthday.New.
func (f *Friend) SetBirthday(month int, day int) {
	b := birthday.New(month, day)
	f.Birthday = &b
}
