package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/wolfman30/clinicdesk/cmd/mainconfig"
	appconfig "github.com/wolfman30/clinicdesk/internal/config"
	"github.com/wolfman30/clinicdesk/internal/notify"
	"github.com/wolfman30/clinicdesk/pkg/logging"
)

// BuildEmailSender picks the email provider named by EMAIL_PROVIDER. Real
// providers are wrapped in a RetrySender. Anything other than sendgrid or ses
// logs messages instead of sending them.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (notify.EmailSender, error) {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender == nil {
			return nil, fmt.Errorf("bootstrap: SENDGRID_API_KEY is required for the sendgrid provider")
		}
		logger.Info("email provider configured", "provider", "sendgrid")
		return notify.NewRetrySender(sender, logger), nil
	case "ses":
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		logger.Info("email provider configured", "provider", "ses", "region", cfg.AWSRegion)
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.EmailFromAddress,
			FromName:  cfg.EmailFromName,
		}, logger)
		return notify.NewRetrySender(sender, logger), nil
	default:
		logger.Info("email provider configured", "provider", "stub")
		return notify.NewStubEmailSender(logger), nil
	}
}
