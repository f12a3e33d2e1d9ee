package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rentride/RR-BookingService/internal/usecase/expire_pending"
)

// ExpireUseCase интерфейс сценария зачистки протухших pending-броней
type ExpireUseCase interface {
	Execute(ctx context.Context) (*expire_pending.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Expirer периодический фоновый джоб: снимает календарные холды броней,
// которые владелец не подтвердил за отведенное время
type Expirer struct {
	uc       ExpireUseCase
	interval time.Duration
	logger   Logger

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewExpirer создает джоб с указанным интервалом запуска
func NewExpirer(uc ExpireUseCase, interval time.Duration, logger Logger) *Expirer {
	return &Expirer{
		uc:       uc,
		interval: interval,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start запускает периодические проходы в фоновой горутине
func (e *Expirer) Start() {
	e.wg.Add(1)

	go func() {
		defer e.wg.Done()

		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		e.logger.Info("Expirer: started with interval %s", e.interval)

		for {
			select {
			case <-ticker.C:
				e.runOnce()
			case <-e.done:
				e.logger.Info("Expirer: stopped")
				return
			}
		}
	}()
}

// Stop останавливает джоб и дожидается завершения текущего прохода
func (e *Expirer) Stop() {
	e.once.Do(func() { close(e.done) })
	e.wg.Wait()
}

func (e *Expirer) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), e.interval)
	defer cancel()

	resp, err := e.uc.Execute(ctx)
	if err != nil {
		e.logger.Error("Expirer: sweep failed: %v", err)
		return
	}

	if len(resp.Expired) > 0 {
		e.logger.Info("Expirer: expired %d stale bookings", len(resp.Expired))
	}
}
