package worker

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/preiskampf/preiskampf/internal/mailer"
)

// JobRateConfig limita um grupo de cota. Tipos de job no mesmo grupo dividem
// o limitador e o semáforo.
type JobRateConfig struct {
	Group       string
	Concurrency int
	Rate        rate.Limit
	Burst       int
}

const (
	groupMail    = "mail"
	groupDefault = "default"
)

// Os dois e-mails saem pelo mesmo provedor, então disputam a mesma cota.
var DefaultJobRateConfigs = map[string]JobRateConfig{
	TypeSendRegistrationEmail:   {Group: groupMail, Concurrency: 5, Rate: 2, Burst: 5},
	TypeSendContactRequestEmail: {Group: groupMail, Concurrency: 5, Rate: 2, Burst: 5},
}

type quota struct {
	limiter   *rate.Limiter
	semaphore chan struct{}
}

// JobRateLimiter é montado uma vez e só lido depois, sem lock.
type JobRateLimiter struct {
	groups map[string]*quota // grupo -> cota
	byType map[string]*quota // tipo de job -> cota do seu grupo
	def    *quota
}

func NewJobRateLimiter(configs map[string]JobRateConfig) *JobRateLimiter {
	jrl := &JobRateLimiter{
		groups: make(map[string]*quota),
		byType: make(map[string]*quota),
		def:    &quota{limiter: rate.NewLimiter(1, 5), semaphore: make(chan struct{}, 5)},
	}

	for jobType, cfg := range configs {
		group := cfg.Group
		if group == "" {
			group = jobType
		}
		q, ok := jrl.groups[group]
		if !ok {
			// o primeiro tipo visto define a cota do grupo
			q = &quota{
				limiter:   rate.NewLimiter(cfg.Rate, cfg.Burst),
				semaphore: make(chan struct{}, max(cfg.Concurrency, 1)),
			}
			jrl.groups[group] = q
		}
		jrl.byType[jobType] = q
	}
	jrl.groups[groupDefault] = jrl.def

	return jrl
}

func (jrl *JobRateLimiter) quotaFor(jobType string) *quota {
	if q, ok := jrl.byType[jobType]; ok {
		return q
	}
	return jrl.def
}

// Acquire espera a vez do job na cota do seu grupo.
func (jrl *JobRateLimiter) Acquire(ctx context.Context, jobType string) error {
	q := jrl.quotaFor(jobType)
	if err := q.limiter.Wait(ctx); err != nil {
		return err
	}
	select {
	case q.semaphore <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (jrl *JobRateLimiter) Release(jobType string) {
	select {
	case <-jrl.quotaFor(jobType).semaphore:
	default:
	}
}

// InUse informa quantos jobs do grupo de jobType estão rodando agora.
func (jrl *JobRateLimiter) InUse(jobType string) int {
	return len(jrl.quotaFor(jobType).semaphore)
}

// GetRetryAfterDuration extrai "retry-after: N" da mensagem de erro do
// provedor; erros de cota sem valor explícito esperam um minuto.
func GetRetryAfterDuration(err error) time.Duration {
	if err == nil {
		return 0
	}

	msg := strings.ToLower(err.Error())
	if _, rest, found := strings.Cut(msg, "retry-after"); found {
		rest = strings.TrimLeft(strings.TrimSpace(rest), ":= ")
		if d := parseRetryAfter(rest); d > 0 {
			return d
		}
	}

	if mailer.IsRateLimitError(err) {
		return time.Minute
	}
	return 0
}

// parseRetryAfter aceita segundos ("30") ou uma duração Go ("2m").
func parseRetryAfter(s string) time.Duration {
	token, _, _ := strings.Cut(s, " ")
	token = strings.TrimRight(token, ",}\"")

	if n, err := strconv.Atoi(token); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(token); err == nil {
		return d
	}
	return 0
}
