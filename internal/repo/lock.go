package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrLeadershipLost — сессия, державшая lock, оборвалась.
var ErrLeadershipLost = errors.New("leader lock lost")

// DispatcherLockKey — ключ advisory lock единственного Dispatcher.
const DispatcherLockKey int64 = 424242

// LeaderLock — удерживаемый session-level advisory lock.
//
// Блокировка живёт, пока жива сессия, поэтому держим отдельное
// соединение из пула до Release.
type LeaderLock struct {
	conn *pgxpool.Conn
	key  int64
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func tryAdvisoryLock(ctx context.Context, db queryRower, key int64) (bool, error) {
	var ok bool
	if err := db.QueryRow(ctx, "select pg_try_advisory_lock($1)", key).Scan(&ok); err != nil {
		return false, unavailable("try advisory lock", err)
	}
	return ok, nil
}

// TryLeaderLock пытается взять lock без ожидания.
// Возвращает nil, если lock держит другой процесс.
func TryLeaderLock(ctx context.Context, pool *pgxpool.Pool, key int64) (*LeaderLock, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, unavailable("acquire conn", err)
	}

	ok, err := tryAdvisoryLock(ctx, conn, key)
	if err != nil || !ok {
		conn.Release()
		return nil, err
	}
	return &LeaderLock{conn: conn, key: key}, nil
}

// WaitLeaderLock повторяет TryLeaderLock каждые retry, пока lock не получен
// или ctx не отменён.
func WaitLeaderLock(ctx context.Context, pool *pgxpool.Pool, key int64, retry time.Duration, onRetry func(err error)) (*LeaderLock, error) {
	tk := time.NewTicker(retry)
	defer tk.Stop()

	for {
		lock, err := TryLeaderLock(ctx, pool, key)
		if lock != nil {
			return lock, nil
		}
		if onRetry != nil {
			onRetry(err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait leader lock: %w", ctx.Err())
		case <-tk.C:
		}
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Watch проверяет сессию lock каждые interval и возвращает ErrLeadershipLost,
// как только соединение перестаёт отвечать. При отмене ctx возвращает nil.
func (l *LeaderLock) Watch(ctx context.Context, interval time.Duration) error {
	return watchSession(ctx, l.conn, interval)
}

func watchSession(ctx context.Context, p pinger, interval time.Duration) error {
	tk := time.NewTicker(interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tk.C:
		}

		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := p.Ping(pingCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("%w: %w", ErrLeadershipLost, err)
		}
	}
}

// Release снимает lock и возвращает соединение в пул.
func (l *LeaderLock) Release() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := l.conn.Exec(ctx, "select pg_advisory_unlock($1)", l.key); err != nil {
		// Соединение с незакрытой сессией нельзя возвращать в пул
		_ = l.conn.Conn().Close(ctx)
	}
	l.conn.Release()
}
