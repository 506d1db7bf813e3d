package worker

import (
	"math/rand/v2"
	"time"
)

type BackoffConfig struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// A fila agenda retries com resolução de segundos.
var DefaultBackoffConfig = BackoffConfig{
	BaseDelay: 2 * time.Second,
	MaxDelay:  10 * time.Minute,
}

func FullJitter(attempt int, cfg BackoffConfig) time.Duration {
	if attempt <= 0 {
		return cfg.BaseDelay
	}

	exp := Exponential(attempt, cfg)

	jitter := time.Duration(rand.Int64N(int64(exp)))

	return exp/2 + jitter/2
}

func Exponential(attempt int, cfg BackoffConfig) time.Duration {
	if attempt <= 0 {
		return cfg.BaseDelay
	}
	if attempt > 30 {
		return cfg.MaxDelay
	}

	return min(cfg.BaseDelay*time.Duration(1<<attempt), cfg.MaxDelay)
}

// retrySeconds arredonda para cima; nunca agenda para "agora".
func retrySeconds(d time.Duration) int64 {
	s := int64((d + time.Second - 1) / time.Second)
	return max(s, 1)
}
