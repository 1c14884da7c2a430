package notify

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"headshots/internal/webhook"
)

// LogNotifier writes completion notices to the log instead of sending mail.
// It keeps development and test environments free of an SMTP dependency while
// exercising the full notification path.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// SendCompletionNotice implements webhook.Notifier.
func (n *LogNotifier) SendCompletionNotice(ctx context.Context, notice webhook.CompletionNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	styles := make([]string, 0, len(notice.Styles))
	for _, style := range notice.Styles {
		styles = append(styles, StyleTitle(string(style)))
	}
	n.logger.Info().
		Str("email", notice.Email).
		Str("locale", notice.Locale).
		Str("result_url", notice.ResultURL).
		Int("asset_count", notice.AssetCount).
		Str("styles", strings.Join(styles, ", ")).
		Msg("notify: headshots ready")
	return nil
}

// StyleTitle renders a style tag as a human-readable name, e.g.
// "business_formal" becomes "Business Formal". The caser is built per call:
// a cases.Caser carries transform state and must not be shared between
// goroutines, and this runs on concurrent webhook and order-API requests.
func StyleTitle(tag string) string {
	c := cases.Title(language.English)
	return c.String(strings.ReplaceAll(tag, "_", " "))
}
