package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/dirk.krummacker/friends-manager/internal/model"
	"gitlab.com/dirk.krummacker/friends-manager/internal/store"
	"go.uber.org/zap"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add sample friends",
		Long:  "Enter initial test data. Friends whose full name is already present are not added again.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeFn, err := openStore(cfg, logger)
			if err != nil {
				return err
			}
			defer closeFn()

			added := populate(s, sampleFriends())
			if err := s.Save(); err != nil {
				return fmt.Errorf("failed to save friends: %w", err)
			}
			logger.Info("Sample friends added", zap.Int("added", added), zap.Int("count", s.Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d friends.\n", added)
			return nil
		},
	}
}

func sampleFriends() []model.Friend {
	friends := []model.Friend{
		{FirstName: "Dirk", LastName: "Krummacker", Phone: "+420 123 456 789",
			StreetAddress: "Vinohradská 12", City: "Praha", State: "CZ", Zip: "120 00"},
		{FirstName: "Pavla", LastName: "Krummackerova", Phone: "+420 023 454 244",
			StreetAddress: "Vinohradská 12", City: "Praha", State: "CZ", Zip: "120 00"},
		{FirstName: "Adam", LastName: "Krummacker", Phone: "+420 333 555 777"},
		{FirstName: "David", LastName: "Krummacker", Phone: "+420 333 555 777"},
	}
	friends[0].SetBirthday(11, 29)
	friends[1].SetBirthday(1, 27)
	friends[2].SetBirthday(3, 31)
	friends[3].SetBirthday(12, 11)
	return friends
}

// populate appends every friend whose full name is not in the store yet and returns the
// number of friends added.
func populate(s *store.Store, friends []model.Friend) int {
	present := make(map[string]bool)
	for _, f := range s.All() {
		present[f.FullName()] = true
	}
	added := 0
	for _, f := range friends {
		if present[f.FullName()] {
			continue
		}
		s.Append(f)
		present[f.FullName()] = true
		added++
	}
	return added
}
