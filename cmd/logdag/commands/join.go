package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oriole-systems/causallog/causallog"
)

var joinCmd = &cobra.Command{
	Use:   "join [other-hash]",
	Short: "Join another log's metadata block into the current log and update HEAD",
	Long: `join fetches the log named by other-hash from the block store, computes
the causal union with the current log, and makes the result the new HEAD.
Both logs must share a store: join does no network fetching of its own.`,
	Args: cobra.ExactArgs(1),
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

		a := causallog.Create(nil, nil)
		if head != "" {
			a, err = causallog.FromHash(ctx, s, head, -1, cfg.Logger())
			if err != nil {
				return err
			}
		}

		b, err := causallog.FromHash(ctx, s, args[0], -1, cfg.Logger())
		if err != nil {
			return err
		}

		size := viper.GetInt("join-size")

		joined, err := causallog.Join(a, b, size)
		if err != nil {
			return err
		}

		if joined.IsEmpty() {
			fmt.Println("(empty)")
			return writeHead("")
		}

		hash, err := causallog.ToHash(ctx, s, joined, cfg.Logger())
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
