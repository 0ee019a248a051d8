package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/andreiblt1304/subscription-service/app/clock"
	"github.com/andreiblt1304/subscription-service/app/payment"
	"github.com/andreiblt1304/subscription-service/app/service"
	"github.com/andreiblt1304/subscription-service/config"
)

var statsWorker bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report subscriptions whose window has expired",
	Long:  "Logs every ledger entry whose expiry has passed. Read-only: expiry is a derived condition and no record is modified or evicted.",
	Run: func(_ *cobra.Command, _ []string) {
		cfg, subscriptionService, cleanup := mustCreateSubscriptionService()
		defer cleanup()

		if statsWorker {
			runWorker("expiry_report", cfg.Jobs.ExpiryReportInterval, subscriptionService, runExpiryReport)
			return
		}

		runJob("expiry_report", func() error {
			return runExpiryReport(context.Background(), subscriptionService)
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsWorker, "worker", false, "Run continuously using configured interval")
}

func runExpiryReport(ctx context.Context, s *service.SubscriptionService) error {
	items, err := s.ListExpiredSubscriptions(ctx)
	if err != nil {
		return err
	}

	for _, item := range items {
		logrus.WithFields(logrus.Fields{
			"address":    item.Address,
			"plan_id":    item.PlanID,
			"expired_at": item.ExpiresAt.UTC().Format(time.RFC3339),
		}).Info("subscription_expired")
	}
	logrus.WithField("expired_count", len(items)).Info("expiry_report")

	return nil
}

func runWorker(
	name string,
	interval time.Duration,
	subscriptionService *service.SubscriptionService,
	fn func(ctx context.Context, s *service.SubscriptionService) error,
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(ctx, subscriptionService) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(ctx, subscriptionService) })
		}
	}
}

func mustCreateSubscriptionService() (*config.Config, *service.SubscriptionService, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	planRepo, subscriptionRepo, cleanup := mustCreateStore(cfg)
	subscriptionService := service.NewSubscriptionService(
		planRepo,
		subscriptionRepo,
		payment.NewExactAmountGate(),
		clock.NewSystem(),
	)

	return cfg, subscriptionService, cleanup
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
