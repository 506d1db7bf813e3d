package worker

import (
	"context"
	"log/slog"
)

// RescueZombies resgata jobs que ficaram presos no status 'processing'
// devido a um crash ou restart inesperado do servidor.
func (p *Processor) RescueZombies(ctx context.Context) (int64, error) {
	p.logger.Info("zombie hunter: searching for stuck jobs")
	n, err := p.pool.QueriesWrite().RescueZombies(ctx)
	if err != nil {
		p.logger.Error("zombie hunter: failed to rescue jobs", slog.String("error", err.Error()))
		return 0, err
	}
	if n > 0 {
		p.logger.Warn("zombie hunter: jobs rescued", slog.Int64("count", n))
	}
	return n, nil
}
