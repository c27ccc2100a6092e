package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/apolloveritas/dirsync/mirror"
	"github.com/apolloveritas/dirsync/roster"
)

func main() {
	os.Exit(execute())
}

func execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	rootCmd := &cobra.Command{
		Use:           "dirsync",
		Short:         "Mirror directory groups into Google Workspace",
		Long:          "Flattens nested groups from the source directory, filters them through the scope policy, and converges the target directory's group memberships.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "dirsync.json", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newPlanCmd(&configPath))
	rootCmd.AddCommand(newApplyCmd(&configPath))
	rootCmd.AddCommand(newLastRunCmd(&configPath))
	rootCmd.AddCommand(newRosterCmd())

	return rootCmd
}

func newPlanCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the operations a sync would perform",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			syncer, cleanup, err := cfg.syncer()
			if err != nil {
				return err
			}
			defer cleanup()

			plan, err := syncer.PlanGroups(cmd.Context())
			if err != nil {
				return err
			}

			for _, op := range plan.Ops {
				switch op.Kind {
				case mirror.OpCreateGroup:
					fmt.Fprintf(cmd.OutOrStdout(), "create group  %s\n", op.GroupID)
				case mirror.OpUpdateGroup:
					fmt.Fprintf(cmd.OutOrStdout(), "update group  %s\n", op.GroupID)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%-13s %s <- %s\n", string(op.Kind), op.GroupID, op.MemberID)
				}
			}

			creates, updates, adds, removes := plan.Counts()
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d group creates, %d group updates, %d member adds, %d member removes, %d skipped\n",
				creates, updates, adds, removes, plan.Skipped())
			return nil
		},
	}
}

func newApplyCmd(configPath *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Plan and apply a sync against the target directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			syncer, cleanup, err := cfg.syncer()
			if err != nil {
				return err
			}
			defer cleanup()

			run, err := syncer.Run(cmd.Context(), dryRun)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s finished %s: %d groups created, %d members added, %d members removed, %d skipped, %d failures\n",
				run.ID, run.Status,
				run.Stat.GroupsCreated, run.Stat.MembersAdded, run.Stat.MembersRemoved,
				run.Stat.Skipped, run.Stat.Failures)

			if run.Stat.Failures > 0 {
				return fmt.Errorf("%d operations failed", run.Stat.Failures)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log operations without applying them")
	return cmd
}

func newLastRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "last-run",
		Short: "Show the most recent finished run and its activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			state, err := cfg.stateStore()
			if err != nil {
				return err
			}
			defer state.Close()

			run, err := state.LastCompletedRun()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "run %s (%s) started %s finished %s\n",
				run.ID, run.Status, run.Started.Format("2006-01-02 15:04:05"), run.Finished.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(cmd.OutOrStdout(), "%d groups created, %d members added, %d members removed, %d skipped, %d failures\n",
				run.Stat.GroupsCreated, run.Stat.MembersAdded, run.Stat.MembersRemoved,
				run.Stat.Skipped, run.Stat.Failures)

			activities, err := state.RunActivity(run.ID)
			if err != nil {
				return err
			}
			for _, a := range activities {
				line := fmt.Sprintf("  %s %-13s %s", a.Status, a.Operation, a.Resource)
				if a.ResourceID != "" {
					line += " <- " + a.ResourceID
				}
				if a.Detail != "" {
					line += " (" + a.Detail + ")"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newRosterCmd() *cobra.Command {
	rosterCmd := &cobra.Command{
		Use:   "roster",
		Short: "Work with the district's student export",
	}

	checkCmd := &cobra.Command{
		Use:   "check <export.csv>",
		Short: "Validate a student export and summarize it by grade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			students, err := roster.Load(f)
			if err != nil {
				return err
			}

			enrolled := 0
			byGrade := map[string]int{}
			for _, student := range students {
				if student.Enrolled {
					enrolled++
				}
				byGrade[roster.GradeName(student.Grade)]++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d students, %d enrolled\n", len(students), enrolled)
			for grade, count := range byGrade {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-15s %d\n", grade, count)
			}
			return nil
		},
	}

	rosterCmd.AddCommand(checkCmd)
	return rosterCmd
}
