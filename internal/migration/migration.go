// Package migration executes SQL scripts against the friends database.
package migration

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed schema/*.sql
var schemas embed.FS

// Schema returns the script that creates the friends table for the given driver, either
// "mysql" or "sqlite".
func Schema(driverName string) (io.Reader, error) {
	data, err := schemas.ReadFile("schema/" + driverName + ".sql")
	if err != nil {
		return nil, fmt.Errorf("no schema for driver %q", driverName)
	}
	return strings.NewReader(string(data)), nil
}

// Run executes the statements of a script. A statement ends with the line that contains a
// semicolon. It returns the number of executed statements.
func Run(db *sqlx.DB, script io.Reader) (int, error) {
	scanner := bufio.NewScanner(script)
	scanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	executed := 0
	for scanner.Scan() {
		line := scanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			statement := builder.String()
			if _, err := db.Exec(statement); err != nil {
				return executed, fmt.Errorf("execute %q: %w", strings.TrimSpace(statement), err)
			}
			executed++
			builder = strings.Builder{}
		}
	}
	if err := scanner.Err(); err != nil {
		return executed, fmt.Errorf("read script: %w", err)
	}
	return executed, nil
}
