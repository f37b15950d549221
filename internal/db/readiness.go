package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"identity-svc/internal/config"
)

// ErrStorageUnavailable se devuelve cuando la base no aceptó conexiones dentro del
// presupuesto de intentos. Es fatal para el arranque.
var ErrStorageUnavailable = errors.New("storage unavailable")

// DialFunc abre y cierra inmediatamente una conexión contra el backend.
type DialFunc func(ctx context.Context) error

// PgDialer devuelve un DialFunc que usa una conexión pgx aislada, fuera del pool.
func PgDialer(cfg *config.Config) DialFunc {
	return func(ctx context.Context) error {
		connCfg, err := pgx.ParseConfig(cfg.DatabaseURL())
		if err != nil {
			return err
		}
		connCfg.ConnectTimeout = cfg.DBConnectTimeout

		if cfg.DBConnectTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.DBConnectTimeout)
			defer cancel()
		}

		conn, err := pgx.ConnectConfig(ctx, connCfg)
		if err != nil {
			return err
		}
		return conn.Close(ctx)
	}
}

// Prober bloquea el arranque hasta que el backend de almacenamiento acepta conexiones.
type Prober struct {
	logger *zap.Logger
	dial   DialFunc
}

func NewProber(logger *zap.Logger, dial DialFunc) *Prober {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{logger: logger, dial: dial}
}

// WaitReady intenta conectar hasta maxAttempts veces, esperando retryDelay entre intentos.
// Vuelve en el primer éxito; tras maxAttempts fallos consecutivos devuelve
// ErrStorageUnavailable envolviendo la última causa.
func (p *Prober) WaitReady(ctx context.Context, maxAttempts int, retryDelay time.Duration) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if retryDelay <= 0 {
		retryDelay = time.Millisecond
	}

	backoff := retry.WithMaxRetries(uint64(maxAttempts-1), retry.NewConstant(retryDelay))

	attempt := 0
	var lastErr error
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := p.dial(ctx); err != nil {
			lastErr = err
			p.logger.Warn("storage not ready",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err == nil {
		p.logger.Info("storage ready", zap.Int("attempt", attempt))
		return nil
	}

	if lastErr == nil {
		lastErr = err
	}
	p.logger.Error("storage unreachable",
		zap.Int("attempts", attempt),
		zap.Error(lastErr),
	)
	return fmt.Errorf("%w after %d attempts: %w", ErrStorageUnavailable, attempt, lastErr)
}
