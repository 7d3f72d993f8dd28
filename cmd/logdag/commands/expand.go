package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oriole-systems/causallog/causallog"
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Grow the current log backward along its unresolved ancestry and update HEAD",
	Long: `expand walks the current log's tails, predecessor hashes referenced by
some entry but not yet present locally, and fetches further entries from
the store, up to --fetch-budget additional entries (-1 for unbounded).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()

		head, err := readHead()
		if err != nil {
			return fmt.Errorf("no log initialized under %s: run 'logdag init' first", cfg.DataDir)
		}
		if head == "" {
			fmt.Println("(empty)")
			return nil
		}

		l, err := causallog.FromHash(ctx, s, head, -1, cfg.Logger())
		if err != nil {
			return err
		}

		budget := viper.GetInt("fetch-budget")
		length := -1
		if budget >= 0 {
			length = l.Len() + budget
		}

		expanded, err := causallog.Expand(ctx, s, l, length, nil, cfg.Logger())
		if err != nil {
			return err
		}

		hash, err := causallog.ToHash(ctx, s, expanded, cfg.Logger())
		if err != nil {
			return err
		}

		if err := writeHead(hash); err != nil {
			return err
		}

		fmt.Println(hash)
		return nil
	},
}
