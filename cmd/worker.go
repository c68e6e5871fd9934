package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/savings/internal/notify"
	"github.com/frahmantamala/savings/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start workers that react to ledger events published on the broker.`,
}

var ledgerWorkerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Start the ledger event audit worker",
	Long:  `Consume ledger events from the broker queue and write them to the audit log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startLedgerWorker(cmd.Context())
	},
}

var (
	brokerURL   string
	brokerQueue string
)

func startLedgerWorker(ctx context.Context) error {
	config, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(config.Environment, config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	url := getStringFlag(brokerURL, config.Broker.URL)
	queue := getStringFlag(brokerQueue, config.Broker.Queue)
	if url == "" {
		return errors.New("broker url is not configured")
	}

	consumer, err := notify.DialConsumer(url, config.Broker.Exchange, queue, lg)
	if err != nil {
		return err
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg.Info("ledger worker is running. Press Ctrl+C to stop.", "exchange", config.Broker.Exchange, "queue", queue)

	err = consumer.Run(ctx, func(ctx context.Context, msg *notify.LedgerMessage) error {
		lg.Info("ledger event",
			"event_id", msg.EventID,
			"event_type", msg.EventType,
			"occurred_at", msg.OccurredAt,
			"money_flow", msg.MoneyFlow)
		return nil
	})
	if errors.Is(err, context.Canceled) {
		lg.Info("ledger worker shutdown complete")
		return nil
	}
	return err
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	ledgerWorkerCmd.Flags().StringVar(&brokerURL, "amqp-url", "", "Broker URL (overrides config)")
	ledgerWorkerCmd.Flags().StringVar(&brokerQueue, "queue", "", "Queue name (overrides config)")

	workerCmd.AddCommand(ledgerWorkerCmd)
}
