package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show questions due for review",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

		count, err := a.scheduler.DueCount(ctx, nil)
		if err != nil {
			return err
		}
		fmt.Printf("%d question(s) due for review\n", count)

		queue, err := a.scheduler.ReviewQueue(ctx, nil, limit)
		if err != nil {
			return err
		}
		for _, q := range queue {
			topic := ""
			if q.Topic != nil {
				topic = q.Topic.Name
			}
			fmt.Printf("  [%d] %s  (level %d, %s)\n",
				q.ID, q.Statement, q.Mastery.Level, topic)
		}
		return nil
	},
}

func init() {
	dueCmd.Flags().Int("limit", 20, "Maximum questions to list")
}
