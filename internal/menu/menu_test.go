package menu

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/friends-manager/internal/store"
)

const initialFile = `first_name,last_name,birthday_month,birthday_day,email_address,nickname,street_address,city,state,zip,phone
Erika,Mustermann,3,2,erika@example.com,Eri,Heidestraße 17,Köln,NRW,51147,+49 0815 4711
Rudi,Völler,4,13,,,Am Ball 1,Hanau,HE,63450,
Hans,Wurst,,,,,,,,,
`

// today is the reference day for all birthday reports in these tests.
func today() time.Time {
	return time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)
}

// runMenu loads the friends file, feeds the input lines into the menu and returns the output
// together with the saved file content.
func runMenu(t *testing.T, lines ...string) (string, string) {
	path := filepath.Join(t.TempDir(), "friends_database.csv")
	require.NoError(t, os.WriteFile(path, []byte(initialFile), 0o644))
	s := store.New(store.NewCSVRepository(path, nil), nil)
	require.NoError(t, s.Load())

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, New(in, &out, s, today, nil).Run())

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	return out.String(), string(saved)
}

// TestExit chooses option 4. It expects that the unchanged friends are saved.
func TestExit(t *testing.T) {
	out, saved := runMenu(t, "4")
	assert.Contains(t, out, "Main Menu:")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
	assert.Equal(t, initialFile, saved)
}

// TestEndOfInput expects that running out of input behaves like choosing option 4.
func TestEndOfInput(t *testing.T) {
	out, saved := runMenu(t, "3")
	assert.Contains(t, out, "Report Menu:")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
	assert.Equal(t, initialFile, saved)
}

func TestInvalidChoice(t *testing.T) {
	out, _ := runMenu(t, "7", "4")
	assert.Contains(t, out, "Invalid choice.")
}

func TestCreateFriend(t *testing.T) {
	_, saved := runMenu(t,
		"1",
		"Lotte", "Lustig", "6", "29",
		"lotte@example.com", "Lolo", "Hauptstraße 5", "Berlin", "BE", "10115", "+49 30 1234",
		"4")
	assert.True(t, strings.HasSuffix(saved,
		"Lotte,Lustig,6,29,lotte@example.com,Lolo,Hauptstraße 5,Berlin,BE,10115,+49 30 1234\n"))
}

// TestCreateFriendInvalidBirthday enters a month that is not a number. It expects that the
// day is not asked for and the friend is stored without birthday.
func TestCreateFriendInvalidBirthday(t *testing.T) {
	out, saved := runMenu(t,
		"1",
		"Lotte", "Lustig", "June",
		"", "", "", "", "", "", "",
		"4")
	assert.Contains(t, out, "Invalid birthday. Skipping.")
	assert.NotContains(t, out, "Birthday day (1-31): ")
	assert.True(t, strings.HasSuffix(saved, "Lotte,Lustig,,,,,,,,,\n"))
}

// TestCreateFriendOutOfRangeBirthday expects that an impossible date is normalized.
func TestCreateFriendOutOfRangeBirthday(t *testing.T) {
	_, saved := runMenu(t,
		"1",
		"Lotte", "Lustig", "2", "30",
		"", "", "", "", "", "", "",
		"4")
	assert.True(t, strings.HasSuffix(saved, "Lotte,Lustig,2,1,,,,,,,\n"))
}

func TestSearchNoMatch(t *testing.T) {
	out, _ := runMenu(t, "2", "xyz", "4")
	assert.Contains(t, out, "No match found.")
}

// TestSearchCancel lists the matches and cancels with an empty line.
func TestSearchCancel(t *testing.T) {
	out, saved := runMenu(t, "2", "MUSTER", "", "4")
	assert.Contains(t, out, "1. Erika Mustermann\n")
	assert.NotContains(t, out, "2. ")
	assert.Equal(t, initialFile, saved)
}

// TestSearchEdit replaces the second friend. It expects that the new record takes the place of
// the old one.
func TestSearchEdit(t *testing.T) {
	_, saved := runMenu(t,
		"2", "v", "1", "EDIT",
		"Rudolf", "Völler", "4", "13", "", "", "", "Rom", "", "", "",
		"4")
	lines := strings.Split(strings.TrimSpace(saved), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Rudolf,Völler,4,13,,,,Rom,,,", lines[2])
}

func TestSearchDelete(t *testing.T) {
	out, saved := runMenu(t, "2", "hans", "1", "delete", "yes", "4")
	assert.Contains(t, out, "Deleted.")
	assert.NotContains(t, saved, "Hans")
}

func TestSearchDeleteCanceled(t *testing.T) {
	out, saved := runMenu(t, "2", "hans", "1", "delete", "no", "4")
	assert.Contains(t, out, "Canceled.")
	assert.Equal(t, initialFile, saved)
}

func TestSearchInvalidAction(t *testing.T) {
	out, saved := runMenu(t, "2", "hans", "1", "rename", "4")
	assert.Contains(t, out, "Invalid option.")
	assert.Equal(t, initialFile, saved)
}

// TestSearchOutOfRangeSelection expects that a number without match returns to the main menu.
func TestSearchOutOfRangeSelection(t *testing.T) {
	out, _ := runMenu(t, "2", "hans", "5", "4")
	assert.NotContains(t, out, "Type 'edit'")
}

func TestReports(t *testing.T) {
	out, _ := runMenu(t, "3", "3.1", "3.2", "3.3", "3.0", "3.9", "4")
	assert.Contains(t, out, "Erika Mustermann\nRudi Völler\nHans Wurst\n")
	assert.Contains(t, out, "Rudi Völler - in 12 days\nErika Mustermann - in 335 days\n")
	assert.Contains(t, out, "Erika Mustermann\nHeidestraße 17\nKöln, NRW 51147\n\n")
	assert.Contains(t, out, "Rudi Völler\nAm Ball 1\nHanau, HE 63450\n\n")
	assert.Contains(t, out, "Invalid option.")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
}
