package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nicovaras/clare/internal/modules/console/domain"
	"github.com/nicovaras/clare/internal/platform/broker"
)

func newSendCmd(a *app) *cobra.Command {
	var flow string
	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send a message to the classifier and show its conversation",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanel(cmd, a, domain.PanelSendMessage, domain.PanelInput{
				Message:  strings.Join(args, " "),
				SendFlow: flow,
			})
		},
	}
	cmd.Flags().StringVar(&flow, "flow", domain.SendFlowOptions[0], "Flow selector ("+strings.Join(domain.SendFlowOptions, "|")+"), shown only")
	return cmd
}

func newCheckInCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "checkin",
		Aliases: []string{"check-in"},
		Short:   "Start a check-in conversation",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPanel(cmd, a, domain.PanelInitiateCheckIn, domain.PanelInput{})
		},
	}
}

func newContextCmd(a *app) *cobra.Command {
	contextCmd := &cobra.Command{
		Use:   "context",
		Short: "Inspect or patch conversation context",
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show the active flow and every stored conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPanel(cmd, a, domain.PanelGetContext, domain.PanelInput{})
		},
	}

	var flow string
	updateCmd := &cobra.Command{
		Use:   "update <conversation-id> <json>",
		Short: "Merge a JSON object into a conversation context",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := domain.PanelInput{UpdateFlow: flow}
			if len(args) > 0 {
				input.ConversationID = args[0]
			}
			if len(args) > 1 {
				input.ContextUpdates = args[1]
			}
			return runPanel(cmd, a, domain.PanelUpdateContext, input)
		},
	}
	updateCmd.Flags().StringVar(&flow, "flow", domain.UpdateFlowOptions[0], "Flow ("+strings.Join(domain.UpdateFlowOptions, "|")+")")

	contextCmd.AddCommand(getCmd, updateCmd)
	return contextCmd
}

func newAuditCmd(a *app) *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Read the activity audit trail",
	}

	var group string
	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Print activity events from the Kafka audit topic as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.Kafka.AuditEnabled() {
				return errors.New("KAFKA_BROKERS is not set")
			}
			consumer := broker.NewKafkaAuditConsumer(a.cfg.Kafka.Brokers, group, a.cfg.Kafka.AuditTopic)
			defer consumer.Close()

			out := cmd.OutOrStdout()
			err := consumer.Consume(cmd.Context(), func(event *domain.ActivityEvent) error {
				return printActivity(out, event)
			})
			if cmd.Context().Err() != nil {
				return nil
			}
			return err
		},
	}
	tailCmd.Flags().StringVar(&group, "group", "console-audit-tail", "Kafka consumer group")

	auditCmd.AddCommand(tailCmd)
	return auditCmd
}

// runPanel executes one panel action and prints its result. Transport
// failures are returned so the process exits non-zero.
func runPanel(cmd *cobra.Command, a *app, panel domain.Panel, input domain.PanelInput) error {
	uc, audit := a.useCase()
	defer func() {
		if err := audit.Close(); err != nil {
			slog.Warn("audit publisher close failed", slog.Any("error", err))
		}
	}()

	result, err := uc.Execute(cmd.Context(), panel, a.session(), input)
	if err != nil {
		return fmt.Errorf("%s: %w", panel.Title(), err)
	}
	return printResult(cmd.OutOrStdout(), result)
}

func printActivity(w io.Writer, event *domain.ActivityEvent) error {
	summary := event.Summary
	if summary == "" {
		summary = "-"
	}
	_, err := fmt.Fprintf(w, "%s %-7s %-17s user=%s calls=%d %s\n",
		event.Timestamp.Format("2006-01-02T15:04:05Z07:00"), event.Level, event.Panel, event.UserID, event.Calls, summary)
	return err
}
