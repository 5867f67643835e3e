package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/friends-manager/internal/menu"
)

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive menu (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu()
		},
	}
}

func runMenu() error {
	s, closeFn, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()
	return menu.New(os.Stdin, os.Stdout, s, time.Now, logger).Run()
}
