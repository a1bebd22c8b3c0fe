package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nochase/nochase/internal/client"
	"github.com/nochase/nochase/internal/model"
	"github.com/nochase/nochase/internal/progress"
)

// GoalsCmd talks to a running store with the Goal Repository Client.
// NOCHASE_URL, NOCHASE_API_KEY and NOCHASE_TOKEN select the store and identity.
func GoalsCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List and edit goals on a running store",
	}
	cmd.PersistentFlags().StringVar(&token, "token", envOr("NOCHASE_TOKEN", ""), "bearer token, see: do token --help")

	session := func() *client.Session { return &client.Session{Token: token} }

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List goals with their progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.FromEnv()
			if err != nil {
				return err
			}
			goals, err := c.ListGoals(cmd.Context(), session())
			if err != nil {
				return err
			}
			return printGoals(cmd.OutOrStdout(), goals, time.Now())
		},
	})

	var (
		motivation string
		days       int
	)
	create := &cobra.Command{
		Use:   "create TITLE",
		Short: "Start a new no-contact goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.FromEnv()
			if err != nil {
				return err
			}
			input := model.NewGoal{Title: args[0], TargetDays: days}
			if motivation != "" {
				input.Motivation = &motivation
			}
			goal, err := c.CreateGoal(cmd.Context(), session(), input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), goal)
		},
	}
	create.Flags().StringVar(&motivation, "motivation", "", "why this goal matters")
	create.Flags().IntVar(&days, "days", 1, "target length in days")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "complete ID",
		Short: "Confirm a goal as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.FromEnv()
			if err != nil {
				return err
			}
			goal, err := c.CompleteGoal(cmd.Context(), session(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), goal)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.FromEnv()
			if err != nil {
				return err
			}
			return c.DeleteGoal(cmd.Context(), session(), args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Show goal counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.FromEnv()
			if err != nil {
				return err
			}
			summary, err := c.Summary(cmd.Context(), session())
			if errors.Is(err, client.ErrAuthenticationRequired) {
				return fmt.Errorf("%w: set NOCHASE_TOKEN or pass --token", err)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	})

	return cmd
}

func printGoals(w io.Writer, goals []*model.Goal, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPROGRESS\tSTATUS")
	for _, g := range goals {
		snap := progress.Evaluate(g, now)
		fmt.Fprintf(tw, "%s\t%s\t%.0f%%\t%s\n", g.ID, g.Title, snap.Percent, snap.Remaining)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
