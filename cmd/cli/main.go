package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/internal/config"
	"github.com/ashwinpillai/duty-roster/pkg/clients/gmailclient"
	"github.com/ashwinpillai/duty-roster/pkg/core/services"
	"github.com/ashwinpillai/duty-roster/pkg/notify"
	"github.com/ashwinpillai/duty-roster/pkg/postgres"
	"github.com/ashwinpillai/duty-roster/pkg/utils"
	"github.com/ashwinpillai/duty-roster/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg         *config.Config
	gmailClient *gmailclient.Client
	database    *postgres.DB
	logger      *zap.Logger
	ctx         context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "duty-roster",
		Short: "Duty Roster CLI - Manage hospital duty schedules",
		Long:  `A CLI tool for generating duty rotations, recording leaves and overrides, and distributing schedules to doctors.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.database != nil {
					app.database.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(viewCmd())
	rootCmd.AddCommand(overrideCmd())
	rootCmd.AddCommand(addLeaveCmd())
	rootCmd.AddCommand(listDoctorsCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(sendCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and database
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.logger.Info("Loading configuration")
	app.cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	app.logger.Info("Connecting to database")
	app.database, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := app.database.RunMigrations(app.ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.logger.Info("Database initialized successfully")

	return nil
}

// ensureGmail initializes the gmail client on first use. Commands that
// never email stay free of the OAuth flow.
func ensureGmail() error {
	if app.gmailClient != nil {
		return nil
	}

	app.logger.Info("Initializing gmail client")
	oauthCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(app.ctx, oauthConfig, env)
	if err != nil {
		return fmt.Errorf("failed to get oauth token: %w", err)
	}

	app.gmailClient, err = gmailclient.NewClient(app.ctx, oauthCfg, token)
	if err != nil {
		return fmt.Errorf("failed to create gmail client: %w", err)
	}
	app.logger.Debug("Gmail client initialized successfully")

	return nil
}

func anchorOrToday(anchor string) string {
	if anchor != "" {
		return anchor
	}
	return time.Now().UTC().Format("2006-01-02")
}

// Command definitions

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <department>",
		Short: "Generate the duty rotation for the window containing a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			doNotify, _ := cmd.Flags().GetBool("notify")

			var notifier notify.Notifier
			if doNotify && !dryRun {
				if err := ensureGmail(); err != nil {
					return err
				}
				notifier = notify.NewEmailNotifier(app.gmailClient)
			}

			result, err := services.GenerateSchedule(app.ctx, app.database, app.cfg, app.logger, notifier, services.GenerateParams{
				Department: args[0],
				AnchorDate: anchorOrToday(date),
				DryRun:     dryRun,
				Notify:     doNotify,
			})
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			fmt.Printf("\n✓ Schedule generated\n\n")
			fmt.Printf("Window:  %s to %s\n", result.WindowStart, result.WindowEnd)
			fmt.Printf("Entries: %d\n", len(result.Entries))
			if dryRun {
				fmt.Printf("Mode:    DRY RUN (not saved)\n")
			}
			fmt.Println()

			if len(result.Warnings) > 0 {
				fmt.Printf("⚠️  Warnings (%d):\n", len(result.Warnings))
				for _, warning := range result.Warnings {
					fmt.Printf("  • %s\n", warning)
				}
				fmt.Println()
			}

			printNotifications(result.Notifications)
			return nil
		},
	}

	cmd.Flags().String("date", "", "Anchor date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")
	cmd.Flags().Bool("notify", false, "Email each assigned doctor")

	return cmd
}

func viewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the stored schedule for the window containing a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			department, _ := cmd.Flags().GetString("department")

			result, err := services.ViewSchedule(app.ctx, app.database, app.cfg, app.logger, anchorOrToday(date), department)
			if err != nil {
				return err
			}

			fmt.Printf("\nSchedule %s to %s (%d entries)\n\n", result.WindowStart, result.WindowEnd, len(result.Entries))
			if len(result.Entries) == 0 {
				fmt.Println("No schedule generated for this window yet.")
				return nil
			}

			dutyNames := make(map[string]string, len(result.Duties))
			for _, duty := range result.Duties {
				dutyNames[duty.ID] = duty.Name
			}
			doctorNames := make(map[string]string, len(result.Doctors))
			for _, doc := range result.Doctors {
				doctorNames[doc.ID] = doc.Name
			}
			name := func(byID map[string]string, id string) string {
				if n, ok := byID[id]; ok {
					return n
				}
				return id
			}

			for _, entry := range result.Entries {
				line := fmt.Sprintf("%s  %-12s %s", entry.Date, name(dutyNames, entry.DutyID), name(doctorNames, entry.DoctorID))
				if department == "" {
					line = fmt.Sprintf("%-12s %s", entry.Department, line)
				}
				if entry.ProxyUsed {
					proxy := "TBD"
					if entry.ProxyDoctorID != "" {
						proxy = name(doctorNames, entry.ProxyDoctorID)
					}
					line += fmt.Sprintf(" (proxy: %s)", proxy)
				}
				if entry.IsOverride {
					line += " [override]"
				}
				fmt.Println(line)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("date", "", "Anchor date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().String("department", "", "Restrict to one department (defaults to all)")

	return cmd
}

func overrideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "override <department> <date> <duty_id> <doctor_id>",
		Short: "Manually assign a doctor to a (day, duty) slot",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			proxyID, _ := cmd.Flags().GetString("proxy")
			by, _ := cmd.Flags().GetString("by")
			note, _ := cmd.Flags().GetString("note")
			doNotify, _ := cmd.Flags().GetBool("notify")

			var notifier notify.Notifier
			if doNotify {
				if err := ensureGmail(); err != nil {
					return err
				}
				notifier = notify.NewEmailNotifier(app.gmailClient)
			}

			result, err := services.ApplyOverride(app.ctx, app.database, app.cfg, app.logger, notifier, services.OverrideParams{
				Department:    args[0],
				Date:          args[1],
				DutyID:        args[2],
				DoctorID:      args[3],
				ProxyDoctorID: proxyID,
				By:            by,
				Note:          note,
				Notify:        doNotify,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Override recorded for %s on %s\n\n", result.Entry.DutyID, result.Entry.Date)
			printNotifications(result.Notifications)
			return nil
		},
	}

	cmd.Flags().String("proxy", "", "Proxy doctor covering the slot")
	cmd.Flags().String("by", "", "Who made the override")
	cmd.Flags().String("note", "", "Reason for the override")
	cmd.Flags().Bool("notify", false, "Email the affected doctors")

	return cmd
}

func addLeaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addLeave <doctor_id> <start_date> <end_date>",
		Short: "Record an approved leave (inclusive dates)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			substituteID, _ := cmd.Flags().GetString("substitute")

			leave, err := services.AddLeave(app.ctx, app.database, app.logger, services.LeaveParams{
				DoctorID:     args[0],
				StartDate:    args[1],
				EndDate:      args[2],
				SubstituteID: substituteID,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Leave recorded: %s to %s\n", leave.StartDate, leave.EndDate)
			fmt.Println("Regenerate the affected window to apply it.")
			return nil
		},
	}

	cmd.Flags().String("substitute", "", "Preferred stand-in doctor")

	return cmd
}

func listDoctorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listDoctors <department>",
		Short: "List the doctors of a department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doctors, err := app.database.GetDoctorsByDepartment(app.ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list doctors: %w", err)
			}

			fmt.Printf("\nFound %d doctors:\n\n", len(doctors))
			for _, doc := range doctors {
				email := doc.Email
				if email == "" {
					email = "no email"
				}
				fmt.Printf("- %s (%s) - %s\n", doc.Name, doc.ID, email)
			}

			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <department> <output.xlsx>",
		Short: "Export the window's schedule grid to a spreadsheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")

			result, err := services.ExportSchedule(app.ctx, app.database, app.cfg, app.logger, anchorOrToday(date), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Exported %d entries (%s to %s) to %s\n", result.Entries, result.WindowStart, result.WindowEnd, result.Path)
			return nil
		},
	}

	cmd.Flags().String("date", "", "Anchor date (YYYY-MM-DD, defaults to today)")

	return cmd
}

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <department>",
		Short: "Email the window's schedule to every doctor appearing in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")

			if err := ensureGmail(); err != nil {
				return err
			}

			result, err := services.SendSchedule(app.ctx, app.database, app.gmailClient, app.cfg, app.logger, anchorOrToday(date), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\nSchedule %s to %s\n", result.WindowStart, result.WindowEnd)
			fmt.Printf("Sent to %d of %d recipients\n\n", result.Sent, result.Recipients)

			if len(result.Failures) > 0 {
				fmt.Printf("⚠️  Failed deliveries (%d):\n", len(result.Failures))
				for _, failure := range result.Failures {
					fmt.Printf("  ✗ %s: %s\n", failure.DoctorName, failure.Reason)
				}
				fmt.Println("\nEntries were left unsent; fix the failures and retry.")
			} else if result.Marked {
				fmt.Println("✓ All deliveries succeeded, entries marked as sent.")
			}

			return nil
		},
	}

	cmd.Flags().String("date", "", "Anchor date (YYYY-MM-DD, defaults to today)")

	return cmd
}

func printNotifications(results []notify.Result) {
	if len(results) == 0 {
		return
	}

	sent := 0
	var failed []notify.Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
			continue
		}
		sent++
	}

	fmt.Printf("Notifications sent: %d\n", sent)
	if len(failed) > 0 {
		fmt.Printf("⚠️  Failed notifications (%d):\n", len(failed))
		for _, r := range failed {
			fmt.Printf("  ✗ %s: %v\n", r.DoctorName, r.Err)
		}
	}
	fmt.Println()
}
