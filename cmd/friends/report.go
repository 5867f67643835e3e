package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/friends-manager/internal/model"
	"gitlab.com/dirk.krummacker/friends-manager/internal/report"
)

func reportCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:       "report alphabetical|birthdays|labels|ics",
		Short:     "Print a report of all friends",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"alphabetical", "birthdays", "labels", "ics"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()
			return writeReport(cmd.OutOrStdout(), args[0], s.All(), time.Now(), year)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "First year of the calendar events (ics only, default: current year)")
	return cmd
}

// writeReport writes the named report. today is the reference day of the birthday report
// and the timestamp of the calendar.
func writeReport(w io.Writer, name string, friends []model.Friend, today time.Time, year int) error {
	switch name {
	case "alphabetical":
		return report.WriteAlphabetical(w, friends)
	case "birthdays":
		return report.WriteUpcomingBirthdays(w, friends, today)
	case "labels":
		return report.WriteMailingLabels(w, friends)
	case "ics":
		if year == 0 {
			year = today.Year()
		}
		return report.WriteICS(w, friends, year, today)
	default:
		return fmt.Errorf("unknown report %q", name)
	}
}
