package v1

import (
	"context"
	"log/slog"
	"time"

	"github.com/vidalaw/intake-api/app/core"
	pkgerrors "github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/i18n"
)

// JanitorLogic runs on a schedule. Expiry is enforced at read time either
// way; the sweep only keeps the table from accumulating dead rows.
type JanitorLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewJanitorLogic(ctx context.Context, core *core.Core) *JanitorLogic {
	return &JanitorLogic{
		ctx:  ctx,
		core: core,
	}
}

func (l *JanitorLogic) SweepExpiredTokens() (int64, error) {
	swept, err := l.core.Store().ShareTokenStore().DeleteExpired(l.ctx, time.Now().Unix())
	if err != nil {
		return 0, pkgerrors.New("JanitorLogic.SweepExpiredTokens.DeleteExpired", i18n.ERROR_INTERNAL, err)
	}

	if swept > 0 {
		l.core.Metrics().JanitorSweptAdd(float64(swept))
		slog.Info("Swept expired share tokens", slog.Int64("count", swept))
	}
	return swept, nil
}
