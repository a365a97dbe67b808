package main

import (
	"fmt"
	"io"
	"os"

	"github.com/SscSPs/billistry/internal/utils"
	"github.com/spf13/cobra"
)

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Helpers for the payment gateway webhook",
}

var webhookSignCmd = &cobra.Command{
	Use:   "sign <file>",
	Short: "Print the webhook signature of a request body",
	Long: `Sign a webhook body with PAYMENT_WEBHOOK_SECRET and print the hex HMAC,
ready for the X-Webhook-Signature header. Use "-" to read the body from stdin.`,
	Example: `  billistryctl webhook sign event.json
  cat event.json | billistryctl webhook sign -`,
	Args: cobra.ExactArgs(1),
	RunE: runWebhookSign,
}

func init() {
	webhookCmd.AddCommand(webhookSignCmd)
	rootCmd.AddCommand(webhookCmd)
}

func runWebhookSign(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.PaymentWebhookSecret == "" {
		return fmt.Errorf("PAYMENT_WEBHOOK_SECRET is not set")
	}

	var body []byte
	if args[0] == "-" {
		body, err = io.ReadAll(cmd.InOrStdin())
	} else {
		body, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), utils.SignHMAC(cfg.PaymentWebhookSecret, body))
	return nil
}
