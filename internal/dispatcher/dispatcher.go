package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shaiso/Ghostwriter/internal/delivery"
	"github.com/shaiso/Ghostwriter/internal/domain"
	"github.com/shaiso/Ghostwriter/internal/mq"
	"github.com/shaiso/Ghostwriter/internal/telemetry"
)

// markTimeout — таймаут отметки поста после успешной отправки.
const markTimeout = 5 * time.Second

// PostStore — часть Store, которая нужна dispatcher.
type PostStore interface {
	ListDue(ctx context.Context, now time.Time) ([]domain.DuePost, error)
	MarkPublished(ctx context.Context, id int64) error
}

// EventPublisher получает события о результатах доставки.
type EventPublisher interface {
	PublishPostPublished(ctx context.Context, payload mq.PostPublishedPayload) error
	PublishPostFailed(ctx context.Context, payload mq.PostFailedPayload) error
}

// Dispatcher — периодическая доставка due posts.
type Dispatcher struct {
	posts     PostStore
	sink      delivery.Sink
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *telemetry.DispatcherMetrics
	schedule  string
	loc       *time.Location
	now       func() time.Time
	dryRun    bool

	running atomic.Bool
}

// Config — конфигурация Dispatcher.
type Config struct {
	Posts     PostStore
	Sink      delivery.Sink
	Publisher EventPublisher // опционально
	Logger    *slog.Logger
	Metrics   *telemetry.DispatcherMetrics // default: незарегистрированные метрики
	Schedule  string                       // интервал или cron (default: "60s")
	Location  *time.Location               // зона наивного времени (default: time.Local)
	Now       func() time.Time

	// DryRun — отправка идёт в лог-sink, посты не помечаются опубликованными.
	DryRun bool
}

// CycleReport — итоги одного цикла.
type CycleReport struct {
	Due       int
	Marked    int
	Unmarked  int
	Failed    int
	Fallbacks int
}

// New создаёт новый Dispatcher.
func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NewDispatcherMetrics(nil)
	}
	schedule := cfg.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Dispatcher{
		posts:     cfg.Posts,
		sink:      cfg.Sink,
		publisher: cfg.Publisher,
		logger:    logger,
		metrics:   metrics,
		schedule:  schedule,
		loc:       loc,
		now:       now,
		dryRun:    cfg.DryRun,
	}
}

// Run запускает циклы по расписанию и блокируется до отмены ctx.
// Первый цикл выполняется сразу, чтобы разобрать накопившуюся очередь.
// При остановке дожидается завершения текущего цикла.
func (d *Dispatcher) Run(ctx context.Context) error {
	sched, err := ParseSchedule(d.schedule)
	if err != nil {
		return err
	}

	cl := cronLogger{logger: d.logger}
	c := cron.New(
		cron.WithLocation(d.loc),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	c.Schedule(sched, cron.FuncJob(func() { d.runTick(ctx) }))

	d.logger.Info("dispatcher started", "schedule", d.schedule)
	d.runTick(ctx)
	c.Start()

	<-ctx.Done()
	d.logger.Info("dispatcher stopping")
	<-c.Stop().Done()

	return nil
}

// runTick выполняет Tick и логирует ошибку: цикл никогда не роняет процесс.
func (d *Dispatcher) runTick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := d.Tick(ctx); err != nil {
		if errors.Is(err, ErrCycleInProgress) {
			d.logger.Debug("dispatcher tick skipped", "reason", err)
			return
		}
		d.logger.Error("dispatcher cycle failed", "error", err)
	}
}

// Tick выполняет один цикл доставки.
//
// Ошибки одного поста не блокируют обработку остальных.
// Ошибка возвращается, только если не удалось получить due posts
// или предыдущий цикл ещё не завершён (ErrCycleInProgress).
func (d *Dispatcher) Tick(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		d.metrics.SkippedCycles.Inc()
		return ErrCycleInProgress
	}
	defer d.running.Store(false)

	start := time.Now()
	defer func() { d.metrics.CycleDuration.Observe(time.Since(start).Seconds()) }()

	report, err := d.cycle(ctx)
	if err != nil {
		d.metrics.CycleErrors.Inc()
		return err
	}

	if report.Due > 0 {
		d.logger.Info("dispatcher cycle completed",
			"due", report.Due,
			"marked", report.Marked,
			"unmarked", report.Unmarked,
			"failed", report.Failed,
			"plain_fallbacks", report.Fallbacks,
			"duration", time.Since(start),
		)
	}
	return nil
}

// cycle — Fetching и Delivering для всех due posts.
func (d *Dispatcher) cycle(ctx context.Context) (CycleReport, error) {
	var report CycleReport
	d.metrics.Cycles.Inc()

	// 1. Fetching
	posts, err := d.posts.ListDue(ctx, d.now().In(d.loc))
	if err != nil {
		return report, fmt.Errorf("list due posts: %w", err)
	}

	report.Due = len(posts)
	d.metrics.DuePosts.Set(float64(len(posts)))
	if len(posts) == 0 {
		return report, nil
	}

	d.logger.Debug("found due posts", "count", len(posts))

	// 2. Delivering — последовательно, порядок publish_at сохраняется внутри канала
	for i := range posts {
		if ctx.Err() != nil {
			// Остановка: оставшиеся посты остаются due до следующего запуска
			d.logger.Info("dispatcher cycle interrupted", "remaining", len(posts)-i)
			break
		}

		outcome, fallback := d.deliver(ctx, &posts[i])
		if fallback {
			report.Fallbacks++
		}
		switch outcome {
		case domain.OutcomeMarked:
			report.Marked++
		case domain.OutcomeDeliveredUnmarked:
			report.Unmarked++
		default:
			report.Failed++
		}
	}

	return report, nil
}

// deliver отправляет один пост и помечает его опубликованным.
// Возвращает результат и признак того, что использовался plain-текст.
func (d *Dispatcher) deliver(ctx context.Context, post *domain.DuePost) (domain.DeliveryOutcome, bool) {
	logger := telemetry.WithPostID(telemetry.WithChannelID(d.logger, post.ChannelID), post.ID)

	// a. Markdown
	err := delivery.SendPost(ctx, d.sink, post.ChannelExternalID, &post.ScheduledPost, delivery.ParseModeMarkdown)

	// c. Канал отверг разметку — одна немедленная попытка без неё
	fallback := false
	if err != nil && delivery.IsFormatRejected(err) {
		logger.Warn("formatting rejected, retrying as plain text", "error", err)
		d.metrics.Fallbacks.Inc()
		fallback = true
		err = delivery.SendPost(ctx, d.sink, post.ChannelExternalID, &post.ScheduledPost, delivery.ParseModePlain)
	}

	// d. Failed — пост остаётся в очереди
	if err != nil {
		logger.Error("delivery failed, post stays queued", "error", err)
		d.metrics.Failed.Inc()
		d.emitFailed(ctx, logger, post, err)
		return domain.OutcomeFailed, fallback
	}

	if d.dryRun {
		// Сообщение никуда не ушло, пост должен остаться в очереди
		logger.Info("dry run: post left unpublished", "plain_fallback", fallback)
		return domain.OutcomeDeliveredUnmarked, fallback
	}

	d.metrics.Delivered.WithLabelValues(mediaLabel(post)).Inc()

	// b. Отметка. Сообщение уже ушло, поэтому отмена ctx не должна прервать запись.
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
	defer cancel()

	if err := d.posts.MarkPublished(markCtx, post.ID); err != nil {
		logger.Error("post delivered but not marked published, it will be sent again", "error", err)
		d.metrics.MarkFailures.Inc()
		d.emitPublished(ctx, logger, post, fallback, false)
		return domain.OutcomeDeliveredUnmarked, fallback
	}

	logger.Info("post published", "plain_fallback", fallback)
	d.emitPublished(ctx, logger, post, fallback, true)
	return domain.OutcomeMarked, fallback
}

func (d *Dispatcher) emitPublished(ctx context.Context, logger *slog.Logger, post *domain.DuePost, fallback, marked bool) {
	if d.publisher == nil {
		return
	}
	err := d.publisher.PublishPostPublished(ctx, mq.PostPublishedPayload{
		PostID:        post.ID,
		ChannelID:     post.ChannelID,
		PlainFallback: fallback,
		Marked:        marked,
	})
	if err != nil {
		// Не фатально — состояние поста уже в БД
		logger.Warn("failed to publish post.published", "error", err)
	}
}

func (d *Dispatcher) emitFailed(ctx context.Context, logger *slog.Logger, post *domain.DuePost, cause error) {
	if d.publisher == nil {
		return
	}
	err := d.publisher.PublishPostFailed(ctx, mq.PostFailedPayload{
		PostID:    post.ID,
		ChannelID: post.ChannelID,
		Error:     cause.Error(),
	})
	if err != nil {
		logger.Warn("failed to publish post.failed", "error", err)
	}
}

func mediaLabel(post *domain.DuePost) string {
	if !post.HasMedia() {
		return "text"
	}
	return post.Media.Kind.String()
}
