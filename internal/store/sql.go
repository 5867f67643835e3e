package store

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/friends-manager/internal/model"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc.org/sqlite registers itself as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// friendRow is a row of the friends table.
type friendRow struct {
	Position      int64         `db:"position"`
	FirstName     string        `db:"first_name"`
	LastName      string        `db:"last_name"`
	BirthdayMonth sql.NullInt64 `db:"birthday_month"`
	BirthdayDay   sql.NullInt64 `db:"birthday_day"`
	EmailAddress  string        `db:"email_address"`
	Nickname      string        `db:"nickname"`
	StreetAddress string        `db:"street_address"`
	City          string        `db:"city"`
	State         string        `db:"state"`
	Zip           string        `db:"zip"`
	Phone         string        `db:"phone"`
}

const selectFriends = `
	SELECT position, first_name, last_name, birthday_month, birthday_day, email_address,
		nickname, street_address, city, state, zip, phone
	FROM friends
	ORDER BY position
`

const deleteFriends = `DELETE FROM friends`

const insertFriend = `
	INSERT INTO friends (position, first_name, last_name, birthday_month, birthday_day,
		email_address, nickname, street_address, city, state, zip, phone)
	VALUES (:position, :first_name, :last_name, :birthday_month, :birthday_day,
		:email_address, :nickname, :street_address, :city, :state, :zip, :phone)
`

// SQLRepository stores friends in the friends table of a MySQL or SQLite database.
type SQLRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSQLRepository wraps an open database. The driver name is "mysql" or "sqlite"; it
// determines the placeholder syntax. The database argument can be a real database for
// production use or a mock database within unit tests.
func NewSQLRepository(sqlDB *sql.DB, driverName string, logger *zap.Logger) *SQLRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLRepository{db: sqlx.NewDb(sqlDB, driverName), logger: logger}
}

// OpenMySQL opens a MySQL database with the given credentials. addr is host:port.
func OpenMySQL(user, password, addr, dbName string) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = addr
	cfg.DBName = dbName
	cfg.ParseTime = true
	sqlDB, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql db: %w", err)
	}
	return sqlDB, nil
}

// OpenSQLite opens the SQLite database file at path, creating it if necessary.
func OpenSQLite(path string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return sqlDB, nil
}

// DB returns the wrapped database.
func (r *SQLRepository) DB() *sqlx.DB {
	return r.db
}

// Load reads all friends ordered by their position.
func (r *SQLRepository) Load() ([]model.Friend, error) {
	var rows []friendRow
	if err := r.db.Select(&rows, selectFriends); err != nil {
		return nil, fmt.Errorf("select friends: %w", err)
	}
	friends := make([]model.Friend, 0, len(rows))
	for _, row := range rows {
		f := model.Friend{
			FirstName:     row.FirstName,
			LastName:      row.LastName,
			EmailAddress:  row.EmailAddress,
			Nickname:      row.Nickname,
			StreetAddress: row.StreetAddress,
			City:          row.City,
			State:         row.State,
			Zip:           row.Zip,
			Phone:         row.Phone,
		}
		if row.BirthdayMonth.Valid && row.BirthdayDay.Valid {
			f.SetBirthday(int(row.BirthdayMonth.Int64), int(row.BirthdayDay.Int64))
		}
		friends = append(friends, f)
	}
	return friends, nil
}

// Save replaces the content of the friends table within a single transaction.
func (r *SQLRepository) Save(friends []model.Friend) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if _, err := tx.Exec(deleteFriends); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete friends: %w", err)
	}
	for i, f := range friends {
		if _, err := tx.NamedExec(insertFriend, toRow(int64(i), f)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert friend %q: %w", f.FullName(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func toRow(position int64, f model.Friend) friendRow {
	row := friendRow{
		Position:      position,
		FirstName:     f.FirstName,
		LastName:      f.LastName,
		EmailAddress:  f.EmailAddress,
		Nickname:      f.Nickname,
		StreetAddress: f.StreetAddress,
		City:          f.City,
		State:         f.State,
		Zip:           f.Zip,
		Phone:         f.Phone,
	}
	if f.Birthday != nil {
		row.BirthdayMonth = sql.NullInt64{Int64: int64(f.Birthday.Month()), Valid: true}
		row.BirthdayDay = sql.NullInt64{Int64: int64(f.Birthday.Day()), Valid: true}
	}
	return row
}
