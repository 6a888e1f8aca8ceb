package checkout

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

const (
	defaultSweepInterval = 1 * time.Minute
	defaultStaleAfter    = 15 * time.Minute
	defaultSweepBatch    = 100
)

// SweeperOptions задаёт параметры зачистки брошенных заказов.
type SweeperOptions struct {
	Logger        *log.Entry
	Metrics       *metrics.CheckoutMetrics
	SweepInterval time.Duration
	StaleAfter    time.Duration
	BatchSize     int
}

// SweeperOption настраивает Sweeper.
type SweeperOption func(*SweeperOptions)

// WithSweeperLogger задаёт logger для зачистки.
func WithSweeperLogger(logger *log.Entry) SweeperOption {
	return func(opts *SweeperOptions) {
		opts.Logger = logger
	}
}

// WithSweeperMetrics задаёт метрики зачистки.
func WithSweeperMetrics(m *metrics.CheckoutMetrics) SweeperOption {
	return func(opts *SweeperOptions) {
		opts.Metrics = m
	}
}

// WithSweepInterval задаёт частоту запуска зачистки.
func WithSweepInterval(interval time.Duration) SweeperOption {
	return func(opts *SweeperOptions) {
		opts.SweepInterval = interval
	}
}

// WithStaleAfter задаёт порог, после которого creating-заголовок
// считается брошенным.
func WithStaleAfter(age time.Duration) SweeperOption {
	return func(opts *SweeperOptions) {
		opts.StaleAfter = age
	}
}

// WithSweepBatchSize задаёт размер порции за один проход.
func WithSweepBatchSize(batchSize int) SweeperOption {
	return func(opts *SweeperOptions) {
		opts.BatchSize = batchSize
	}
}

// Sweeper удаляет заказы, застрявшие в статусе creating: следы
// оформлений, прерванных между записью заголовка и переводом в pending.
type Sweeper struct {
	orders        domain.OrderRepository
	logger        *log.Entry
	metrics       *metrics.CheckoutMetrics
	sweepInterval time.Duration
	staleAfter    time.Duration
	batchSize     int
}

// NewSweeper создаёт зачистку брошенных creating-заголовков.
func NewSweeper(orders domain.OrderRepository, options ...SweeperOption) *Sweeper {
	opts := SweeperOptions{
		SweepInterval: defaultSweepInterval,
		StaleAfter:    defaultStaleAfter,
		BatchSize:     defaultSweepBatch,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "order-sweeper")
	}

	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = defaultStaleAfter
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultSweepBatch
	}

	return &Sweeper{
		orders:        orders,
		logger:        logger,
		metrics:       opts.Metrics,
		sweepInterval: opts.SweepInterval,
		staleAfter:    opts.StaleAfter,
		batchSize:     opts.BatchSize,
	}
}

// Run запускает периодическую зачистку до отмены ctx.
func (s *Sweeper) Run(ctx context.Context) {
	if s.orders == nil {
		s.logger.Warn("order sweeper is disabled: repository is nil")
		return
	}

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	s.SweepOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce выполняет один проход зачистки.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	before := time.Now().UTC().Add(-s.staleAfter)
	pruned, err := s.orders.PruneCreating(before, s.batchSize)
	if err != nil {
		s.logger.WithError(err).Warn("failed to prune stale creating orders")
		return
	}
	if pruned == 0 {
		return
	}

	if s.metrics != nil {
		s.metrics.RecordPrunedOrders(pruned)
	}
	s.logger.WithField("pruned", pruned).Info("pruned stale creating orders")
}
