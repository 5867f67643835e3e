package service

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/friends-manager/internal/birthday"
	"gitlab.com/dirk.krummacker/friends-manager/internal/model"
	"gitlab.com/dirk.krummacker/friends-manager/internal/report"
	"gitlab.com/dirk.krummacker/friends-manager/internal/store"
	"go.uber.org/zap"
)

// friends is the store all handlers work on.
var friends *store.Store

// now returns the reference time for birthday calculations. Tests replace it.
var now = time.Now

// logger receives application log messages.
var logger = zap.NewNop()

// allowedAscending are the allowed values for the 'ascending' URL parameter.
var allowedAscending = []string{"true", "false"}

// SetupFriendStore sets the store the handlers work on, the clock used for birthday reports, and
// the logger. A nil clock means time.Now.
func SetupFriendStore(s *store.Store, clock func() time.Time, l *zap.Logger) {
	friends = s
	now = clock
	if now == nil {
		now = time.Now
	}
	logger = l
	if logger == nil {
		logger = zap.NewNop()
	}
}

// SetupHttpRouter initializes the REST API router and registers all endpoints. The request
// logging of gin is turned off if ginLogging is "off".
func SetupHttpRouter(ginLogging string) *gin.Engine {
	var router *gin.Engine
	if strings.EqualFold(ginLogging, "off") {
		logger.Info("Turning off HTTP request logging.")
		router = gin.New()
		router.Use(gin.Recovery())
	} else {
		router = gin.Default()
	}
	router.GET("/friends", findFriends)
	router.GET("/friends/search", searchFriends)
	router.POST("/friends", createFriend)
	router.GET("/friends/:id", findFriendByID)
	router.PUT("/friends/:id", updateFriendByID)
	router.DELETE("/friends/:id", deleteFriendByID)
	router.PATCH("/friends/:id/birthday", updateBirthdayDay)
	router.GET("/reports/alphabetical", alphabeticalReport)
	router.GET("/reports/birthdays", birthdaysReport)
	router.GET("/reports/birthdays.ics", birthdaysCalendar)
	router.GET("/reports/labels", mailingLabels)
	return router
}

// findFriends responds with a list of friends as JSON.
//
// The URL parameters 'firstname' and 'lastname' are interpreted as the beginning of the first name
// or last name of the friend, ignoring case.
//
// The URL parameter 'birthday' consists of a month part and a day part, separated by '-'. The call
// returns all friends that have their birthday on this month and day.
//
// The URL parameter 'limit' specifies how many friends matching the search criteria are returned.
// The URL parameter 'offset' specifies how many items from the sorted list of results are skipped
// in the beginning. Together with the 'limit' parameter, one can implement search result paging.
//
// The URL parameter 'orderby' specifies the property by which the results shall be sorted. Valid
// values are 'id', 'firstname', 'lastname', 'city', and 'birthday'. Birthdays are sorted by month
// and day; friends without birthday come first. If this URL parameter is not specified, the
// friends will be sorted by id.
//
// If the URL parameter 'ascending' is set to 'false' then the sort order is reversed. If it is set
// to 'true', or if this URL parameter is omitted, the result starts with the lowest value.
//
// REST API calls:
//
//	> curl "http://localhost:8080/friends"
//	> curl "http://localhost:8080/friends?firstname=Er"
//	> curl "http://localhost:8080/friends?birthday=11-29"
//	> curl "http://localhost:8080/friends?limit=20&offset=60"
//	> curl "http://localhost:8080/friends?orderby=birthday&ascending=false"
func findFriends(c *gin.Context) {
	var q store.Query
	var success bool
	q.FirstName, q.LastName, q.BirthdayMonth, q.BirthdayDay, success = parseNameAndBirthday(c)
	if !success {
		return
	}
	q.Limit, q.Offset, success = parseLimitAndOffset(c)
	if !success {
		return
	}
	q.OrderBy, q.Descending, success = parseOrderbyAndAscending(c)
	if !success {
		return
	}
	result := friends.Query(q)
	if len(result) == 0 {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "friend not found"})
	} else {
		c.IndentedJSON(http.StatusOK, result)
	}
}

// parseNameAndBirthday inspects the URL parameters and determines values for first name, last
// name, month and day of the friend's birthday.
func parseNameAndBirthday(c *gin.Context) (firstname string, lastname string, bmonth int, bday int, success bool) {
	firstname = c.Query("firstname")
	lastname = c.Query("lastname")
	value := c.Query("birthday")
	if value != "" {
		var errMonth, errDay error
		before, after, found := strings.Cut(value, "-")
		if found {
			bmonth, errMonth = strconv.Atoi(before)
			bday, errDay = strconv.Atoi(after)
		}
		if !found || errMonth != nil || errDay != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid birthday URL parameter"})
			return "", "", 0, 0, false
		}
	}
	return firstname, lastname, bmonth, bday, true
}

// parseLimitAndOffset inspects the URL parameters and determines values for limit and offset of
// the result set. A limit of zero means no limit.
func parseLimitAndOffset(c *gin.Context) (limit int, offset int, success bool) {
	var err error
	if value := c.Query("limit"); value != "" {
		limit, err = strconv.Atoi(value)
		if err != nil || limit < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid limit parameter"})
			return 0, 0, false
		}
	}
	if value := c.Query("offset"); value != "" {
		offset, err = strconv.Atoi(value)
		if err != nil || offset < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid offset parameter"})
			return 0, 0, false
		}
	}
	return limit, offset, true
}

// parseOrderbyAndAscending inspects the URL parameters and determines the sort property and
// direction of the result set.
func parseOrderbyAndAscending(c *gin.Context) (orderby string, descending bool, success bool) {
	orderby = c.Query("orderby")
	if orderby == "" {
		orderby = "id"
	}
	if !slices.Contains(store.OrderByValues, orderby) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid orderby parameter"})
		return "", false, false
	}
	ascending := c.Query("ascending")
	if ascending == "" {
		ascending = "true"
	}
	if !slices.Contains(allowedAscending, ascending) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid ascending parameter"})
		return orderby, false, false
	}
	return orderby, ascending == "false", true
}

// searchFriends responds with all friends whose first or last name contains the 'name' URL
// parameter, ignoring case. An empty list is a valid result.
//
// Example REST API call:
//
//	> curl "http://localhost:8080/friends/search?name=ust"
func searchFriends(c *gin.Context) {
	result := friends.Search(c.Query("name"))
	if result == nil {
		result = []model.Friend{}
	}
	c.IndentedJSON(http.StatusOK, result)
}

// createFriend appends the friend specified in the request's JSON to the list. It responds with
// the full friend data including the newly assigned id. An out-of-range birthday is normalized,
// for example {"month": 2, "day": 30} is stored as February 1st.
//
// Example REST API call:
//
//	> curl http://localhost:8080/friends --request "POST" --include --header "Content-Type: application/json" --data '{"firstname": "Hans", "lastname": "Wurst", "phone": "0815", "birthday": {"month": 3, "day": 2}}'
func createFriend(c *gin.Context) {
	var newFriend model.Friend
	if err := c.BindJSON(&newFriend); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}
	created := friends.Append(newFriend)
	logger.Debug("Friend created", zap.Int64("id", created.Id))
	c.IndentedJSON(http.StatusCreated, created)
}

// parseID returns the id parameter of the request URL. It responds with NOT FOUND if the id is
// not a number.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "invalid id parameter"})
		return 0, false
	}
	return id, true
}

// respondWithFriend sends the friend, or NOT FOUND if the store did not find it.
func respondWithFriend(c *gin.Context, f model.Friend, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "friend not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, f)
}

// findFriendByID locates the friend whose id matches the id parameter of the request URL, then
// returns that friend as a response.
//
// Example REST API call:
//
//	> curl http://localhost:8080/friends/5
func findFriendByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	f, err := friends.Get(id)
	respondWithFriend(c, f, err)
}

// friendUpdate lists the fields of a PUT request. Missing fields keep their value.
type friendUpdate struct {
	FirstName     *string            `json:"firstname"`
	LastName      *string            `json:"lastname"`
	Birthday      *birthday.Birthday `json:"birthday"`
	EmailAddress  *string            `json:"email"`
	Nickname      *string            `json:"nickname"`
	StreetAddress *string            `json:"street"`
	City          *string            `json:"city"`
	State         *string            `json:"state"`
	Zip           *string            `json:"zip"`
	Phone         *string            `json:"phone"`
}

// empty reports whether the update does not contain any value.
func (u friendUpdate) empty() bool {
	return u == friendUpdate{}
}

// apply copies the submitted values to the friend.
func (u friendUpdate) apply(f *model.Friend) {
	setIfPresent := func(target *string, value *string) {
		if value != nil {
			*target = *value
		}
	}
	setIfPresent(&f.FirstName, u.FirstName)
	setIfPresent(&f.LastName, u.LastName)
	setIfPresent(&f.EmailAddress, u.EmailAddress)
	setIfPresent(&f.Nickname, u.Nickname)
	setIfPresent(&f.StreetAddress, u.StreetAddress)
	setIfPresent(&f.City, u.City)
	setIfPresent(&f.State, u.State)
	setIfPresent(&f.Zip, u.Zip)
	setIfPresent(&f.Phone, u.Phone)
	if u.Birthday != nil {
		f.Birthday = u.Birthday
	}
}

// updateFriendByID updates the friend whose id matches the id parameter of the request URL,
// updates the values specified in the JSON (and only those), and finally responds with the new
// version of the friend.
//
// Example REST API calls:
//
//	> curl http://localhost:8080/friends/5 --request "PUT" --include --header "Content-Type: application/json" --data '{"phone": "81970"}'
//	> curl http://localhost:8080/friends/5 --request "PUT" --include --header "Content-Type: application/json" --data '{"birthday": {"month": 6, "day": 6}}'
func updateFriendByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var submitted friendUpdate
	if errBind := c.BindJSON(&submitted); errBind != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}

	// It only makes sense to continue if we have at least one value to update.
	if submitted.empty() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "no values to be updated"})
		return
	}

	f, err := friends.Update(id, submitted.apply)
	respondWithFriend(c, f, err)
}

// dayUpdate is the body of a PATCH request for the birthday.
type dayUpdate struct {
	Day *int `json:"day"`
}

// updateBirthdayDay moves the birthday of the friend to another day of the same month. A day
// that does not exist in the month leaves the birthday unchanged. Friends without birthday are
// answered with CONFLICT.
//
// Example REST API call:
//
//	> curl http://localhost:8080/friends/5/birthday --request "PATCH" --include --header "Content-Type: application/json" --data '{"day": 14}'
func updateBirthdayDay(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var submitted dayUpdate
	if err := c.BindJSON(&submitted); err != nil || submitted.Day == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid JSON"})
		return
	}

	noBirthday := false
	f, err := friends.Update(id, func(f *model.Friend) {
		if f.Birthday == nil {
			noBirthday = true
			return
		}
		updated := f.Birthday.WithDay(*submitted.Day)
		f.Birthday = &updated
	})
	if noBirthday {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "friend has no birthday"})
		return
	}
	respondWithFriend(c, f, err)
}

// deleteFriendByID removes the friend whose id matches the id parameter of the request URL.
//
// Example REST API call:
//
//	> curl http://localhost:8080/friends/5 --request "DELETE"
func deleteFriendByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := friends.Remove(id); err != nil {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "friend not found"})
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"message": "friend deleted"})
}

// alphabeticalReport responds with all friends sorted by last name and first name.
func alphabeticalReport(c *gin.Context) {
	result := report.Alphabetical(friends.All())
	c.IndentedJSON(http.StatusOK, result)
}

// birthdaysReport responds with the friends that have a birthday on record, the next birthday
// first, together with the number of days until it.
//
// Example REST API call:
//
//	> curl http://localhost:8080/reports/birthdays
func birthdaysReport(c *gin.Context) {
	result := report.UpcomingBirthdays(friends.All(), now())
	if result == nil {
		result = []report.Upcoming{}
	}
	c.IndentedJSON(http.StatusOK, result)
}

// birthdaysCalendar responds with an iCalendar file containing the birthdays as yearly events,
// starting in the current year.
//
// Example REST API call:
//
//	> curl -o birthdays.ics http://localhost:8080/reports/birthdays.ics
func birthdaysCalendar(c *gin.Context) {
	today := now()
	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename=birthdays.ics")
	if err := report.WriteICS(c.Writer, friends.All(), today.Year(), today); err != nil {
		logger.Warn("Could not write calendar", zap.Error(err))
	}
}

// mailingLabels responds with the address labels of all friends as plain text.
func mailingLabels(c *gin.Context) {
	var b strings.Builder
	if err := report.WriteMailingLabels(&b, friends.All()); err != nil {
		logger.Warn("Could not write mailing labels", zap.Error(err))
	}
	c.String(http.StatusOK, b.String())
}
