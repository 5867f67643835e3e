// Package report produces the canned listings of friends.
package report

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"time"

	"gitlab.com/dirk.krummacker/friends-manager/internal/model"
)

// Alphabetical returns the friends sorted by last name, then first name. Friends with equal
// names keep their order.
func Alphabetical(friends []model.Friend) []model.Friend {
	sorted := slices.Clone(friends)
	slices.SortStableFunc(sorted, func(a, b model.Friend) int {
		return cmp.Or(
			cmp.Compare(a.LastName, b.LastName),
			cmp.Compare(a.FirstName, b.FirstName),
		)
	})
	return sorted
}

// Upcoming is a friend together with the number of days until the next birthday.
type Upcoming struct {
	Friend    model.Friend `json:"friend"`
	DaysUntil int          `json:"days_until"`
}

// UpcomingBirthdays returns the friends that have a birthday on record, the next birthday
// first. Only month and day of today are used.
func UpcomingBirthdays(friends []model.Friend, today time.Time) []Upcoming {
	var upcoming []Upcoming
	for _, f := range friends {
		if f.Birthday == nil {
			continue
		}
		upcoming = append(upcoming, Upcoming{Friend: f, DaysUntil: f.Birthday.DaysUntil(today)})
	}
	slices.SortStableFunc(upcoming, func(a, b Upcoming) int {
		return cmp.Compare(a.DaysUntil, b.DaysUntil)
	})
	return upcoming
}

// WriteAlphabetical writes one line with the full name per friend, sorted by name.
func WriteAlphabetical(w io.Writer, friends []model.Friend) error {
	for _, f := range Alphabetical(friends) {
		if _, err := fmt.Fprintln(w, f.FullName()); err != nil {
			return err
		}
	}
	return nil
}

// WriteUpcomingBirthdays writes lines like "Erika Mustermann - in 12 days".
func WriteUpcomingBirthdays(w io.Writer, friends []model.Friend, today time.Time) error {
	for _, u := range UpcomingBirthdays(friends, today) {
		if _, err := fmt.Fprintf(w, "%s - in %d days\n", u.Friend.FullName(), u.DaysUntil); err != nil {
			return err
		}
	}
	return nil
}

// MailingLabel returns the address block of a friend, without trailing newline.
func MailingLabel(f model.Friend) string {
	return fmt.Sprintf("%s\n%s\n%s, %s %s", f.FullName(), f.StreetAddress, f.City, f.State, f.Zip)
}

// WriteMailingLabels writes the address blocks of all friends, separated by blank lines.
func WriteMailingLabels(w io.Writer, friends []model.Friend) error {
	for _, f := range friends {
		if _, err := fmt.Fprintf(w, "%s\n\n", MailingLabel(f)); err != nil {
			return err
		}
	}
	return nil
}
