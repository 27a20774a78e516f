package notifier

import (
	"log/slog"

	"github.com/jobsift/jobsift/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes listings to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each listing via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each listing with company, title, score, URL, and, when
// enrichment found one, the contact email. Returns nil (stdout logging
// does not fail).
func (n *LogNotifier) Notify(listings []model.Listing) error {
	for _, l := range listings {
		args := []any{
			"company", l.Company,
			"title", l.Title,
			"score", l.MatchScore,
			"source", l.Source,
			"url", l.URL,
		}
		if l.Contact != nil {
			args = append(args,
				"contact", l.Contact.Email,
				"contact_confidence", l.Contact.Confidence,
			)
		}
		n.logger.Info("job match", args...)
	}
	return nil
}
