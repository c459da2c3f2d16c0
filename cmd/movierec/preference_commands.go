package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rushteam/movierec/core"
)

func newPreferenceCommands(ctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newSignalCommand(ctx, "like", "Record that a user likes a movie", core.SignalLike),
		newSignalCommand(ctx, "dislike", "Record that a user dislikes a movie", core.SignalDislike),
		newUnlikeCommand(ctx),
		newLikesCommand(ctx),
	}
}

func newSignalCommand(ctx *commandContext, use, short string, value core.Signal) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   use + " <movie-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			prefs, kv, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer kv.Close()

			if err := prefs.Upsert(cmd.Context(), core.PreferenceSignal{
				UserID: userID,
				ItemID: itemID,
				Value:  value,
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d %ss movie %d\n", userID, use, itemID)
			return nil
		},
	}
	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "User id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newUnlikeCommand(ctx *commandContext) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "unlike <movie-id>",
		Short: "Remove a user's signal for a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			prefs, kv, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer kv.Close()

			if err := prefs.Remove(cmd.Context(), userID, itemID); err != nil && !core.IsStoreNotFound(err) {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed signal for movie %d\n", itemID)
			return nil
		},
	}
	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "User id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newLikesCommand(ctx *commandContext) *cobra.Command {
	var (
		userID  int64
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "likes",
		Short: "List a user's like and dislike signals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, kv, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer kv.Close()

			signals, err := prefs.Signals(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, signals)
			}
			if len(signals) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "User %d has no signals\n", userID)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), signalTable(signals))
			return nil
		},
	}
	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "User id")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print signals as JSON")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func signalTable(signals []core.PreferenceSignal) string {
	rows := make([][]string, 0, len(signals))
	for _, s := range signals {
		rows = append(rows, []string{
			strconv.FormatInt(s.ItemID, 10),
			signalName(s.Value),
			s.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return renderTable(
		[]string{"Movie", "Signal", "Updated"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	)
}

func signalName(v core.Signal) string {
	switch v {
	case core.SignalLike:
		return "like"
	case core.SignalDislike:
		return "dislike"
	default:
		return strconv.Itoa(int(v))
	}
}

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	var (
		userID        int64
		strat         string
		contentWeight float64
		collabWeight  float64
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update a user's recommendation settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			prefs, kv, err := ctx.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer kv.Close()

			settings, err := prefs.Settings(cmd.Context(), userID)
			switch {
			case err == nil:
			case core.IsNotFound(err):
				settings = cfg.Recommend.DefaultSettings(userID)
			default:
				return err
			}

			flags := cmd.Flags()
			changed := false
			if flags.Changed("strategy") {
				settings.Strategy = core.ParseStrategy(strat)
				changed = true
			}
			if flags.Changed("content-weight") {
				settings.ContentWeight = contentWeight
				changed = true
			}
			if flags.Changed("collaborative-weight") {
				settings.CollaborativeWeight = collabWeight
				changed = true
			}
			if changed {
				if err := prefs.SaveSettings(cmd.Context(), settings); err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"},
				[][]string{
					{"user", strconv.FormatInt(settings.UserID, 10)},
					{"strategy", string(settings.Strategy)},
					{"content_weight", strconv.FormatFloat(settings.ContentWeight, 'f', -1, 64)},
					{"collaborative_weight", strconv.FormatFloat(settings.CollaborativeWeight, 'f', -1, 64)},
				},
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().Int64VarP(&userID, "user", "u", 0, "User id")
	cmd.Flags().StringVarP(&strat, "strategy", "s", "", "content, collaborative, hybrid or popularity")
	cmd.Flags().Float64Var(&contentWeight, "content-weight", 0, "Content-based weight for hybrid blending")
	cmd.Flags().Float64Var(&collabWeight, "collaborative-weight", 0, "Collaborative weight for hybrid blending")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func parseMovieID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id %q", s)
	}
	return id, nil
}
