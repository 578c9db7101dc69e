// Package notify delivers import summaries to operators by email.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/harukimedia/giftflow/pkg/config"

	importservice "github.com/harukimedia/giftflow/internal/domain/import/service"
)

// EmailNotifier sends import summaries through Resend.
type EmailNotifier struct {
	client *resend.Client
	from   string
	to     string
	logger *slog.Logger
}

// NewEmailNotifier returns nil when no API key or recipient is
// configured; callers treat a nil notifier as "delivery disabled".
func NewEmailNotifier(cfg config.NotifyConfig, logger *slog.Logger) *EmailNotifier {
	if cfg.ResendAPIKey == "" || cfg.ToAddress == "" {
		logger.Info("import summary email disabled")
		return nil
	}
	return &EmailNotifier{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.FromAddress,
		to:     cfg.ToAddress,
		logger: logger,
	}
}

// SendImportSummary emails one import's outcome.
func (n *EmailNotifier) SendImportSummary(_ context.Context, brand string, summary *importservice.Summary) error {
	var errList string
	if len(summary.Errors) > 0 {
		errList = "<h3>Errors</h3><ul><li>" + strings.Join(summary.Errors, "</li><li>") + "</li></ul>"
	}

	html := fmt.Sprintf(`
<h2>Import finished for %s</h2>
<p>%d rows processed: %d imported, %d failed, %d skipped as duplicates.</p>
%s`, brand, summary.Total, summary.Success, summary.Failed, summary.Skipped, errList)

	_, err := n.client.Emails.Send(&resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: fmt.Sprintf("Sheet import for %s: %d/%d rows imported", brand, summary.Success, summary.Total),
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send import summary: %w", err)
	}
	return nil
}
