package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oriole-systems/causallog/causallog"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the current log, newest entry first",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		head, err := readHead()
		if err != nil {
			return fmt.Errorf("no log initialized under %s: run 'logdag init' first", cfg.DataDir)
		}
		if head == "" {
			fmt.Println("(empty)")
			return nil
		}

		length := viper.GetInt("fetch-budget")

		l, err := causallog.FromHash(context.Background(), s, head, length, cfg.Logger())
		if err != nil {
			return err
		}

		fmt.Println(l.String())
		return nil
	},
}
