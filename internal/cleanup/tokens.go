package cleanup

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"gedops/internal/database"
	"gedops/internal/types"
	"gedops/logger"
)

type tokenJob struct {
	tokens database.TokenRepository
}

// NewTokens removes expired password reset tokens, and used ones when
// IncludeUsed is set. Deletion is a single batch: the set either goes
// or stays.
func NewTokens(tokens database.TokenRepository) Job {
	return &tokenJob{tokens: tokens}
}

func (t tokenJob) Name() string {
	return "tokens"
}

func (t tokenJob) Run(ctx context.Context, opts Options) (Report, error) {
	now := opts.now()
	report := Report{Job: t.Name(), DryRun: opts.DryRun}

	expired, err := t.tokens.FindExpired(ctx, now)
	if err != nil {
		return report, err
	}

	var used []*types.PasswordResetToken
	if opts.IncludeUsed {
		used, err = t.tokens.FindUsed(ctx)
		if err != nil {
			return report, err
		}
	}

	all := lo.UniqBy(append(expired, used...), func(tk *types.PasswordResetToken) uuid.UUID {
		return tk.ID
	})

	logger.Info("token cleanup candidates",
		zap.Int("expired", len(expired)),
		zap.Int("used", len(used)),
		zap.Int("total", len(all)))

	for _, tk := range all {
		report.Candidates = append(report.Candidates, Item{
			ID:          tk.ID.String(),
			Description: describeToken(tk, now),
			AgeDays:     AgeDays(now, tk.CreatedAt),
		})
	}

	if opts.DryRun || len(all) == 0 {
		return report, nil
	}

	ids := lo.Map(all, func(tk *types.PasswordResetToken, _ int) uuid.UUID { return tk.ID })
	if err := t.tokens.DeleteAll(ctx, ids); err != nil {
		report.Failed = len(all)
		return report, err
	}

	report.Deleted = len(all)
	logger.Info("token cleanup finished", zap.Int("deleted", report.Deleted))
	return report, nil
}

func describeToken(tk *types.PasswordResetToken, now time.Time) string {
	states := make([]string, 0, 2)
	if tk.Expired(now) {
		states = append(states, "expired")
	}
	if tk.Used {
		states = append(states, "used")
	}
	return truncateToken(tk.Token) + " (" + strings.Join(states, " & ") + ")"
}

func truncateToken(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
