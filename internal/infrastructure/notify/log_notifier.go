// Package notify holds reminder delivery backends. The only one wired today
// logs the reminder; a mail or push backend slots in behind the same port.
package notify

import (
	"context"

	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

type LogNotifier struct {
	logger *logging.Logger
}

func NewLogNotifier(logger *logging.Logger) *LogNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendDeadlineReminder(ctx context.Context, userID string, r round.Round) error {
	n.logger.InfoContext(ctx, "deadline reminder",
		"user_id", userID,
		"round_id", r.ID,
		"deadline", r.PredictionDeadline,
	)
	return nil
}
