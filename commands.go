package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wagneradl/opsdesk/internal/desk"
	"github.com/wagneradl/opsdesk/internal/market"
	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/render"
	"github.com/wagneradl/opsdesk/internal/session"
	"github.com/wagneradl/opsdesk/internal/workspace"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the dashboard: stats, operational table and task board",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Fprintln(cmd.OutOrStdout(), render.Dashboard(a.desk.Workspace(), 100))
		return nil
	},
}

var (
	pricesRefresh  bool
	pricesCategory string
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Print the AI tool market catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd)
		defer cancel()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if pricesRefresh {
			fmt.Fprintln(cmd.ErrOrStderr(), "Refreshing prices...")
			if err := a.desk.RefreshPrices(ctx); err != nil {
				return err
			}
		}
		tools := a.desk.Workspace().Tools()
		if pricesCategory != "" {
			tools = market.InCategory(tools, pricesCategory)
		}
		fmt.Fprintln(cmd.OutOrStdout(), render.Market(tools, nil, market.IdleLabel))
		return nil
	},
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Budget proposal commands",
}

var budgetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded budget proposals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		for _, b := range a.desk.Workspace().Budgets() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s $%.2f/month\n", b.ID, b.ClientName, b.TotalMonthly)
		}
		return nil
	},
}

var budgetExportDir string

var budgetExportCmd = &cobra.Command{
	Use:   "export <budget-id>",
	Short: "Write a budget proposal as a plain-text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		dir := budgetExportDir
		if dir == "" {
			dir = a.exportDir()
		}
		path, err := a.desk.ExportBudget(dir, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var meetingTitle, meetingTime, meetingDate, meetingType, meetingProject string

var meetingCmd = &cobra.Command{
	Use:   "meeting",
	Short: "Meeting commands",
}

var meetingAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Schedule a meeting, refusing taken slots",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := a.desk.ScheduleMeeting(models.Meeting{
			ProjectID: meetingProject,
			Title:     meetingTitle,
			Time:      meetingTime,
			Date:      meetingDate,
			Type:      meetingType,
		})
		if err != nil {
			var conflict *workspace.ConflictError
			if errors.As(err, &conflict) {
				fmt.Fprintln(cmd.ErrOrStderr(), desk.ConflictNotice(conflict))
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %q on %s at %s (%s)\n", m.Title, m.Date, m.Time, m.ID)
		return nil
	},
}

var projectName, projectClient string

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project commands",
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a project in planning status",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.desk.CreateProjectManual(projectName, projectClient)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %q for %s (%s)\n", p.Name, p.Client, p.ID)
		return nil
	},
}

var projectStatus, projectDescription string

var projectUpdateCmd = &cobra.Command{
	Use:   "update <project>",
	Short: "Change a project's status or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if projectStatus == "" && projectDescription == "" {
			return errors.New("nothing to update: set --status or --description")
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := session.Find(a.desk.Workspace(), args[0])
		if err != nil {
			return err
		}
		p, err = a.desk.UpdateProject(p.ID, projectDescription, projectStatus)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %q: %s\n", p.Name, p.Status)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), configPath)
		return nil
	},
}

func init() {
	pricesCmd.Flags().BoolVar(&pricesRefresh, "refresh", false, "Refresh prices before printing")
	pricesCmd.Flags().StringVar(&pricesCategory, "category", "", "Only print one category")

	budgetExportCmd.Flags().StringVar(&budgetExportDir, "dir", "", "Output directory (default <data-dir>/exports)")
	budgetCmd.AddCommand(budgetListCmd, budgetExportCmd)

	meetingAddCmd.Flags().StringVar(&meetingTitle, "title", "", "Meeting title")
	meetingAddCmd.Flags().StringVar(&meetingTime, "time", "", "Start time as HH:MM (default "+workspace.DefaultMeetingTime+")")
	meetingAddCmd.Flags().StringVar(&meetingDate, "date", "", "Date as yyyy-mm-dd (default today)")
	meetingAddCmd.Flags().StringVar(&meetingType, "type", models.MeetingInternal, "client, internal or review")
	meetingAddCmd.Flags().StringVar(&meetingProject, "project", "", "Project id")
	meetingAddCmd.MarkFlagRequired("title")
	meetingCmd.AddCommand(meetingAddCmd)

	projectAddCmd.Flags().StringVar(&projectName, "name", "", "Project name (default \""+desk.DefaultProjectName+"\")")
	projectAddCmd.Flags().StringVar(&projectClient, "client", "", "Client name (default \""+desk.DefaultProjectClient+"\")")
	projectUpdateCmd.Flags().StringVar(&projectStatus, "status", "", "New status: "+strings.Join(models.ProjectStatuses, ", "))
	projectUpdateCmd.Flags().StringVar(&projectDescription, "description", "", "New description")
	projectCmd.AddCommand(projectAddCmd, projectUpdateCmd)

	configCmd.AddCommand(configInitCmd)
}
