package cmd

import (
	"context"

	"github.com/etnz/exposure/notify"
)

// deliver sends the report by mail and to the webhook, when they are
// configured. The report is already printed: failures are only logged.
func (a *App) deliver(ctx context.Context, r *run, subject, text, md string) {
	cfg := a.Config
	if cfg.SMTP.Configured() {
		mailer := notify.Mailer{
			Addr:     cfg.SMTP.Addr(),
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			Timeout:  cfg.FetchTimeout,
		}
		err := mailer.Send(notify.Mail{
			From:     cfg.SMTP.From,
			To:       cfg.SMTP.To,
			Subject:  subject,
			Text:     text,
			Markdown: md,
		})
		if err != nil {
			r.log.Error().Err(err).Str("smtp", cfg.SMTP.Addr()).Msg("cannot mail the report")
		} else {
			r.log.Info().Strs("to", cfg.SMTP.To).Msg("report mailed")
		}
	} else {
		r.log.Debug().Msg("mail delivery not configured")
	}

	if cfg.WebhookURL != "" {
		hook := notify.Webhook{URL: cfg.WebhookURL}
		if err := hook.Post(ctx, subject+"\n\n"+text); err != nil {
			r.log.Error().Err(err).Msg("cannot post the report to the webhook")
		} else {
			r.log.Info().Msg("report posted to the webhook")
		}
	}
}
