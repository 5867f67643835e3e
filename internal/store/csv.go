package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"gitlab.com/dirk.krummacker/friends-manager/internal/model"
	"go.uber.org/zap"
)

// Columns are the names of the header row of the friends file, in file order.
var Columns = []string{
	"first_name", "last_name", "birthday_month", "birthday_day", "email_address",
	"nickname", "street_address", "city", "state", "zip", "phone",
}

// tmpSuffix is appended to the file name while a new version is being written.
const tmpSuffix = ".tmp"

// CSVRepository stores friends in a CSV file with a header row.
type CSVRepository struct {
	path   string
	logger *zap.Logger
}

// NewCSVRepository creates a repository for the file at path. The file does not need to exist.
func NewCSVRepository(path string, logger *zap.Logger) *CSVRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVRepository{path: path, logger: logger}
}

// Load reads all friends from the file. A missing file yields an empty list.
func (r *CSVRepository) Load() ([]model.Friend, error) {
	file, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Info(fmt.Sprintf("%s not found. Starting with an empty list.", r.path))
		return []model.Friend{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer file.Close()
	return r.read(file)
}

func (r *CSVRepository) read(in io.Reader) ([]model.Friend, error) {
	reader := csv.NewReader(in)
	header, err := reader.Read()
	if err == io.EOF {
		return []model.Friend{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", r.path, err)
	}
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[name] = i
	}
	for _, column := range Columns {
		if _, found := positions[column]; !found {
			return nil, fmt.Errorf("column %q missing in %s", column, r.path)
		}
	}

	friends := []model.Friend{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.path, err)
		}
		field := func(column string) string {
			return record[positions[column]]
		}
		f := model.Friend{
			FirstName:     field("first_name"),
			LastName:      field("last_name"),
			EmailAddress:  field("email_address"),
			Nickname:      field("nickname"),
			StreetAddress: field("street_address"),
			City:          field("city"),
			State:         field("state"),
			Zip:           field("zip"),
			Phone:         field("phone"),
		}
		month, day := field("birthday_month"), field("birthday_day")
		if month != "" && day != "" {
			m, errMonth := strconv.Atoi(month)
			d, errDay := strconv.Atoi(day)
			if errMonth != nil || errDay != nil {
				r.logger.Warn("Ignoring invalid birthday",
					zap.String("file", r.path),
					zap.Int("line", line),
					zap.String("birthday_month", month),
					zap.String("birthday_day", day))
			} else {
				f.SetBirthday(m, d)
			}
		}
		friends = append(friends, f)
	}
	return friends, nil
}

// Save writes all friends to a temporary file which then replaces the friends file.
func (r *CSVRepository) Save(friends []model.Friend) error {
	tmpFile := r.path + tmpSuffix
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmpFile, err)
	}
	if err := write(file, friends); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", tmpFile, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpFile, err)
	}
	return os.Rename(tmpFile, r.path)
}

func write(out io.Writer, friends []model.Friend) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for _, f := range friends {
		month, day := "", ""
		if f.Birthday != nil {
			month = strconv.Itoa(f.Birthday.Month())
			day = strconv.Itoa(f.Birthday.Day())
		}
		record := []string{
			f.FirstName, f.LastName, month, day, f.EmailAddress,
			f.Nickname, f.StreetAddress, f.City, f.State, f.Zip, f.Phone,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
