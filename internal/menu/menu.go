// Package menu implements the interactive text menu for maintaining friends.
package menu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/friends-manager/internal/model"
	"gitlab.com/dirk.krummacker/friends-manager/internal/report"
	"gitlab.com/dirk.krummacker/friends-manager/internal/store"
	"go.uber.org/zap"
)

// Menu reads choices from an input and prints to an output. It works on a loaded store and
// saves it when the user exits.
type Menu struct {
	in     *bufio.Scanner
	out    io.Writer
	store  *store.Store
	now    func() time.Time
	logger *zap.Logger
	eof    bool
}

// New creates a menu. now supplies the reference day for the birthday report.
func New(in io.Reader, out io.Writer, s *store.Store, now func() time.Time, logger *zap.Logger) *Menu {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Menu{
		in:     bufio.NewScanner(in),
		out:    out,
		store:  s,
		now:    now,
		logger: logger,
	}
}

// Run shows the main menu until the user chooses to exit or the input ends. The store is saved
// before Run returns.
func (m *Menu) Run() error {
	for !m.eof {
		m.println("\nMain Menu:")
		m.println("1 - Create new friend record")
		m.println("2 - Search for a friend")
		m.println("3 - Run reports")
		m.println("4 - Exit")
		choice := m.prompt("Choose an option: ")
		if m.eof {
			break
		}

		switch choice {
		case "1":
			f := m.createFriend()
			if m.eof {
				break
			}
			added := m.store.Append(f)
			m.logger.Debug("Friend created", zap.Int64("id", added.Id))
		case "2":
			m.searchFriend()
		case "3":
			m.reportMenu()
		case "4":
			return m.exit()
		default:
			m.println("Invalid choice.")
		}
	}
	return m.exit()
}

func (m *Menu) exit() error {
	if err := m.store.Save(); err != nil {
		return err
	}
	m.println("Goodbye!")
	return nil
}

// createFriend asks for all fields of a new friend. A birthday that cannot be parsed is
// skipped.
func (m *Menu) createFriend() model.Friend {
	f := model.Friend{
		FirstName: m.prompt("First name: "),
		LastName:  m.prompt("Last name: "),
	}

	month, err := strconv.Atoi(m.prompt("Birthday month (1-12): "))
	if err == nil {
		var day int
		day, err = strconv.Atoi(m.prompt("Birthday day (1-31): "))
		if err == nil {
			f.SetBirthday(month, day)
		}
	}
	if err != nil {
		m.println("Invalid birthday. Skipping.")
	}

	f.EmailAddress = m.prompt("Email: ")
	f.Nickname = m.prompt("Nickname: ")
	f.StreetAddress = m.prompt("Street address: ")
	f.City = m.prompt("City: ")
	f.State = m.prompt("State: ")
	f.Zip = m.prompt("ZIP: ")
	f.Phone = m.prompt("Phone: ")
	return f
}

// searchFriend lists the friends matching a name and lets the user edit or delete one of them.
func (m *Menu) searchFriend() {
	matches := m.store.Search(m.prompt("Enter first or last name to search: "))
	if len(matches) == 0 {
		m.println("No match found.")
		return
	}
	for i, f := range matches {
		m.printf("%d. %s\n", i+1, f.FullName())
	}

	choice := m.prompt("Select a number to edit/delete or press Enter to cancel: ")
	index, err := strconv.Atoi(choice)
	if err != nil || index < 1 || index > len(matches) {
		return
	}
	selected := matches[index-1]

	switch strings.ToLower(m.prompt("Type 'edit' to update or 'delete' to remove: ")) {
	case "edit":
		updated := m.createFriend()
		if m.eof {
			return
		}
		if _, err := m.store.Replace(selected.Id, updated); err != nil {
			m.logger.Warn("Could not replace friend", zap.Int64("id", selected.Id), zap.Error(err))
		}
	case "delete":
		if strings.ToUpper(m.prompt("Are you sure? Type YES to confirm: ")) == "YES" {
			if err := m.store.Remove(selected.Id); err != nil {
				m.logger.Warn("Could not remove friend", zap.Int64("id", selected.Id), zap.Error(err))
			}
			m.println("Deleted.")
		} else {
			m.println("Canceled.")
		}
	default:
		m.println("Invalid option.")
	}
}

// reportMenu shows the report menu until the user returns to the main menu.
func (m *Menu) reportMenu() {
	for !m.eof {
		m.println("\nReport Menu:")
		m.println("3.1 - List of friends alphabetically")
		m.println("3.2 - List of friends by upcoming birthdays")
		m.println("3.3 - Mailing labels")
		m.println("3.9 - Return to main menu")
		choice := m.prompt("Choose an option: ")
		if m.eof {
			return
		}

		var err error
		switch choice {
		case "3.1":
			err = report.WriteAlphabetical(m.out, m.store.All())
		case "3.2":
			err = report.WriteUpcomingBirthdays(m.out, m.store.All(), m.now())
		case "3.3":
			err = report.WriteMailingLabels(m.out, m.store.All())
		case "3.9":
			return
		default:
			m.println("Invalid option.")
		}
		if err != nil {
			m.logger.Warn("Could not write report", zap.String("report", choice), zap.Error(err))
		}
	}
}

// prompt prints the text and returns the next input line without surrounding whitespace. At
// the end of the input it returns an empty string.
func (m *Menu) prompt(text string) string {
	fmt.Fprint(m.out, text)
	if !m.in.Scan() {
		m.eof = true
		return ""
	}
	return strings.TrimSpace(m.in.Text())
}

func (m *Menu) println(text string) {
	fmt.Fprintln(m.out, text)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}
