package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oriole-systems/causallog/causallog"
)

var showCmd = &cobra.Command{
	Use:   "show [hash]",
	Short: "Print the log rooted at hash, without touching HEAD",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		length := viper.GetInt("fetch-budget")

		l, err := causallog.FromHash(context.Background(), s, args[0], length, cfg.Logger())
		if err != nil {
			return err
		}

		fmt.Println(l.String())
		return nil
	},
}
