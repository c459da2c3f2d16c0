package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/strategy"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var (
		userID   int64
		count    int
		strat    string
		likes    []int64
		dislikes []int64
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Resolve recommendations for a user",
		Long: `Resolve recommendations for a user.

Preferences and settings are read from the configured store unless
--like/--dislike or --strategy are given on the command line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := ctx.bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			req := strategy.Request{UserID: userID, Count: count}
			if cmd.Flags().Changed("strategy") {
				settings := rt.cfg.Recommend.DefaultSettings(userID)
				settings.Strategy = core.ParseStrategy(strat)
				req.Settings = &settings
			}
			if len(likes) > 0 || len(dislikes) > 0 {
				req.Signals = inlineSignals(userID, likes, dislikes)
			}

			resp, err := rt.resolver.Resolve(cmd.Context(), req)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Strategy: %s", resp.UsedStrategy)
			if resp.FellBack {
				fmt.Fprintf(out, " (fell back from %s)", resp.RequestedStrategy)
			}
			fmt.Fprintln(out)
			if len(resp.Items) == 0 {
				fmt.Fprintln(out, "No recommendations")
				return nil
			}
			fmt.Fprintln(out, recommendationTable(resp.Items))
			return nil
		},
	}

	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "User id")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of recommendations (default recommend.count)")
	cmd.Flags().StringVarP(&strat, "strategy", "s", "", "content, collaborative, hybrid or popularity")
	cmd.Flags().Int64SliceVar(&likes, "like", nil, "Liked movie id (repeatable, most recent last)")
	cmd.Flags().Int64SliceVar(&dislikes, "dislike", nil, "Disliked movie id (repeatable)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// inlineSignals 把命令行上的点赞转成偏好信号，后出现的点赞时间更新。
func inlineSignals(userID int64, likes, dislikes []int64) []core.PreferenceSignal {
	base := time.Now().Add(-time.Duration(len(likes)+len(dislikes)) * time.Second)
	out := make([]core.PreferenceSignal, 0, len(likes)+len(dislikes))
	for _, id := range dislikes {
		out = append(out, core.PreferenceSignal{UserID: userID, ItemID: id, Value: core.SignalDislike, Timestamp: base})
	}
	for i, id := range likes {
		out = append(out, core.PreferenceSignal{
			UserID:    userID,
			ItemID:    id,
			Value:     core.SignalLike,
			Timestamp: base.Add(time.Duration(i+1) * time.Second),
		})
	}
	return out
}
