package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/mistakebook/internal/bot"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot with hourly review reminders",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		b, err := bot.New(a.cfg.Telegram, a.svc, a.log)
		if err != nil {
			return err
		}

		a.sched.SetNotifier(b, a.svc)
		if err := a.start(); err != nil {
			return err
		}

		a.log.Info("bot started", zap.Bool("reminders", a.cfg.Reminder.Enabled))
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			return err
		}
		a.log.Info("bot shut down")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}
