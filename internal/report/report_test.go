package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/friends-manager/internal/model"
)

// friend creates a friend with the given names and birthday. A month of 0 means no birthday.
func friend(first, last string, month, day int) model.Friend {
	f := model.Friend{FirstName: first, LastName: last}
	if month != 0 {
		f.SetBirthday(month, day)
	}
	return f
}

func testFriends() []model.Friend {
	return []model.Friend{
		friend("Rudi", "Völler", 4, 13),
		friend("Max", "Mustermann", 11, 29),
		friend("Hans", "Wurst", 0, 0),
		friend("Erika", "Mustermann", 3, 2),
	}
}

func TestWriteAlphabetical(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteAlphabetical(&out, testFriends()))
	assert.Equal(t, "Erika Mustermann\nMax Mustermann\nRudi Völler\nHans Wurst\n", out.String())
}

// TestAlphabeticalDoesNotModifyInput expects that the original slice keeps its order.
func TestAlphabeticalDoesNotModifyInput(t *testing.T) {
	friends := testFriends()
	Alphabetical(friends)
	assert.Equal(t, "Rudi", friends[0].FirstName)
}

func TestUpcomingBirthdays(t *testing.T) {
	today := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	upcoming := UpcomingBirthdays(testFriends(), today)
	require.Len(t, upcoming, 3)
	assert.Equal(t, "Rudi", upcoming[0].Friend.FirstName)
	assert.Equal(t, 12, upcoming[0].DaysUntil)
	assert.Equal(t, "Max", upcoming[1].Friend.FirstName)
	assert.Equal(t, 242, upcoming[1].DaysUntil)
	assert.Equal(t, "Erika", upcoming[2].Friend.FirstName)
	assert.Equal(t, 335, upcoming[2].DaysUntil)
}

// TestUpcomingBirthdaysTies expects that friends with the same birthday keep their order.
func TestUpcomingBirthdaysTies(t *testing.T) {
	friends := []model.Friend{
		friend("B", "Second", 5, 5),
		friend("A", "First", 5, 5),
	}
	upcoming := UpcomingBirthdays(friends, time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC))
	require.Len(t, upcoming, 2)
	assert.Equal(t, "B", upcoming[0].Friend.FirstName)
	assert.Equal(t, 0, upcoming[0].DaysUntil)
}

func TestWriteUpcomingBirthdays(t *testing.T) {
	var out bytes.Buffer
	today := time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, WriteUpcomingBirthdays(&out, testFriends(), today))
	assert.Equal(t,
		"Erika Mustermann - in 61 days\nRudi Völler - in 103 days\nMax Mustermann - in 333 days\n",
		out.String())
}

func TestWriteMailingLabels(t *testing.T) {
	friends := []model.Friend{
		{FirstName: "Erika", LastName: "Mustermann", StreetAddress: "Heidestraße 17", City: "Köln", State: "NRW", Zip: "51147"},
		{FirstName: "Hans", LastName: "Wurst"},
	}
	var out bytes.Buffer
	require.NoError(t, WriteMailingLabels(&out, friends))
	assert.Equal(t,
		"Erika Mustermann\nHeidestraße 17\nKöln, NRW 51147\n\nHans Wurst\n\n,  \n\n",
		out.String())
}

func TestWriteICS(t *testing.T) {
	friends := testFriends()
	for i := range friends {
		friends[i].Id = int64(i + 1)
	}
	friends[0].LastName = "Völler, jr."
	stamp := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)

	var out bytes.Buffer
	require.NoError(t, WriteICS(&out, friends, 2026, stamp))
	body := out.String()

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ICSProductID,
		"UID:birthday-1-0413@friends-manager",
		"DTSTAMP:20250102T030405Z",
		"DTSTART;VALUE=DATE:20260413",
		"DTEND;VALUE=DATE:20260414",
		"RRULE:FREQ=YEARLY",
		`SUMMARY:Birthday Rudi Völler\, jr.`,
		"DTSTART;VALUE=DATE:20261129",
		"END:VCALENDAR",
	}
	for _, field := range requiredFields {
		assert.Contains(t, body, field)
	}
	assert.Equal(t, 3, strings.Count(body, "BEGIN:VEVENT"))
	assert.NotContains(t, body, "Wurst")
	assert.True(t, strings.HasSuffix(body, "END:VCALENDAR\r\n"))
}
