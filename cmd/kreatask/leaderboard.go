package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

func leaderboardCmd() *cobra.Command {
	var (
		file string
		mode string
		top  int
	)
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank users from an exported board file without a database",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseLeaderboardMode(mode)
			if err != nil {
				return err
			}
			tasks, users, err := readSnapshot(file)
			if err != nil {
				return err
			}
			lb, err := domain.Aggregate(tasks, users, m)
			if err != nil {
				return err
			}
			return printLeaderboard(cmd.OutOrStdout(), lb, top)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Board export (YAML or JSON)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "all", "Population: all or employees")
	cmd.Flags().IntVarP(&top, "top", "n", 10, "Entries to show, 0 for all")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func printLeaderboard(out io.Writer, lb *domain.Leaderboard, top int) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tROLE\tPOINTS\tTASKS")
	for _, e := range lb.Top(top) {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", e.Rank, e.Name, e.Role, e.Score, e.TasksCompleted)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	for _, f := range lb.Faults {
		fmt.Fprintf(out, "skipped task %s: %s\n", f.TaskID, f.Reason)
	}
	return nil
}
