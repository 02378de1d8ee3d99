package cli

import (
	"github.com/spf13/cobra"
)

func newBotCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Queue a move from a house bot",
		Long: `Ask a house bot to queue one move. It pairs with the oldest waiting
move, so run this while 'rpsctl play' is waiting for an opponent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"strategy": strategy}
			var result BotChallenge

			if err := client.Post("/api/v1/game/rps/bot", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "random", "Bot strategy: random, cycle")

	return cmd
}
