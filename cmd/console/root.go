package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicovaras/clare/internal/config"
	"github.com/nicovaras/clare/internal/modules/console/application/port"
	"github.com/nicovaras/clare/internal/modules/console/application/usecase"
	"github.com/nicovaras/clare/internal/modules/console/domain"
	"github.com/nicovaras/clare/internal/modules/console/infrastructure"
	"github.com/nicovaras/clare/internal/platform/broker"
	"github.com/nicovaras/clare/internal/shared/logging"
)

// app carries what every subcommand shares once flags and environment are resolved.
type app struct {
	cfg     *config.Config
	userID  string
	token   string
	baseURL string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "console",
		Short: "Operator console for the message classifier backend",
		Long: `Operator console for the message classifier backend.

Without a subcommand it serves the web console. The send, checkin and context
subcommands run the same panel actions from a terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			slog.SetDefault(logging.New(os.Stderr, logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format}))

			if !cmd.Flags().Changed("user") {
				a.userID = cfg.Session.DefaultUserID
			}
			if !cmd.Flags().Changed("token") {
				a.token = cfg.Session.DefaultAuthToken
			}
			if strings.TrimSpace(a.baseURL) == "" {
				a.baseURL = cfg.Backend.BaseURL
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, a)
		},
	}

	root.PersistentFlags().StringVarP(&a.userID, "user", "u", "", "User ID (default: DEFAULT_USER_ID)")
	root.PersistentFlags().StringVarP(&a.token, "token", "t", "", "Auth token sent as bearer (default: DEFAULT_AUTH_TOKEN)")
	root.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "Backend base URL (default: BASE_URL)")

	root.AddCommand(newServeCmd(a))
	root.AddCommand(newSendCmd(a))
	root.AddCommand(newCheckInCmd(a))
	root.AddCommand(newContextCmd(a))
	root.AddCommand(newAuditCmd(a))
	return root
}

func (a *app) session() domain.Session {
	return domain.NewSession(a.userID, a.token)
}

// useCase wires the backend client and the audit publisher for terminal runs.
// Terminal runs have no feed subscribers, so no broadcaster is attached.
func (a *app) useCase() (*usecase.ConsoleUseCase, port.AuditPublisher) {
	backend := infrastructure.NewClassifierHTTPClient(a.baseURL, a.cfg.Backend.Timeout, nil)
	audit := broker.NewAuditPublisher(a.cfg.Kafka.Brokers, a.cfg.Kafka.AuditTopic)
	return usecase.NewConsoleUseCase(backend, nil, audit), audit
}
