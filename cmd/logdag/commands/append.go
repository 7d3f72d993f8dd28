package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oriole-systems/causallog/causallog"
)

var appendCmd = &cobra.Command{
	Use:   "append [payload]",
	Short: "Append a new entry to the current log, on top of HEAD",
	Args:  cobra.ExactArgs(1),
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

		log := causallog.Create(nil, nil)
		if head != "" {
			log, err = causallog.FromHash(ctx, s, head, -1, cfg.Logger())
			if err != nil {
				return err
			}
		}

		next, err := causallog.Append(ctx, s, log, []byte(args[0]), cfg.Logger())
		if err != nil {
			return err
		}

		hash, err := causallog.ToHash(ctx, s, next, cfg.Logger())
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
