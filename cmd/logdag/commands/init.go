package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new, empty log under the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(headPath()); err == nil {
			return fmt.Errorf("HEAD already exists at %s", headPath())
		}

		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		// A brand-new log has no entries, so there is nothing to hash yet:
		// ToHash would reject it with EmptyLog. The empty marker HEAD lets
		// later commands tell "log exists, has no entries" apart from "no
		// log was ever initialized".
		fmt.Println("(empty)")
		return writeHead("")
	},
}
