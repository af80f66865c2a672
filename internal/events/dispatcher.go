package events

/*
Dispatcher — асинхронная доставка событий комнаты подписчикам флота.

- Emit не блокирует обработчик запроса: событие кладется в буферизованный канал,
  при переполнении событие сбрасывается с записью в лог (Load Shedding).
- Воркер копит пачку и отдает ее Publisher по размеру пачки или по таймеру.
- Stop закрывает вход, воркер вычитывает остаток канала и делает финальный flush.
*/

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Publisher определяет, куда физически уходят события.
type Publisher interface {
	Publish(ctx context.Context, batch []Envelope) error
}

// Emitter — то, что нужно сервисам от диспетчера.
type Emitter interface {
	Emit(e Envelope)
}

// NopEmitter глушит события (тесты, запуск без Redis).
type NopEmitter struct{}

func (NopEmitter) Emit(Envelope) {}

type Options struct {
	BufferSize    int
	BatchSize     int
	FlushInterval time.Duration
}

type Dispatcher struct {
	ch     chan Envelope
	pub    Publisher
	logger *zap.Logger
	opts   Options
	wg     sync.WaitGroup

	// closeMu защищает закрытие канала от параллельных Emit
	closeMu sync.RWMutex
	closed  bool
}

func NewDispatcher(pub Publisher, opts Options, logger *zap.Logger) *Dispatcher {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 500 * time.Millisecond
	}
	return &Dispatcher{
		ch:     make(chan Envelope, opts.BufferSize),
		pub:    pub,
		logger: logger.With(zap.String("mod", "events")),
		opts:   opts,
	}
}

func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.worker()
}

// Stop запирает вход и ждет, пока воркер все допишет. Повторный вызов безопасен.
func (d *Dispatcher) Stop() {
	d.closeMu.Lock()
	if d.closed {
		d.closeMu.Unlock()
		return
	}
	d.closed = true
	close(d.ch)
	d.closeMu.Unlock()

	d.logger.Info("stopping dispatcher: flushing buffer...")
	d.wg.Wait()
	d.logger.Info("dispatcher stopped gracefully")
}

func (d *Dispatcher) Emit(e Envelope) {
	d.closeMu.RLock()
	defer d.closeMu.RUnlock()

	if d.closed {
		d.logger.Warn("event dropped: dispatcher is stopping", zap.String("id", e.ID))
		return
	}

	select {
	case d.ch <- e:
	default:
		d.logger.Error("event_buffer_overflow",
			zap.String("type", e.Type),
			zap.String("meeting_id", e.Context.SessionID),
		)
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	batch := make([]Envelope, 0, d.opts.BatchSize)
	ticker := time.NewTicker(d.opts.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		// Background: к моменту flush контекст запроса уже завершен
		if err := d.pub.Publish(context.Background(), batch); err != nil {
			d.logger.Error("event flush failed", zap.Int("size", len(batch)), zap.Error(err))
		}
		batch = make([]Envelope, 0, d.opts.BatchSize)
	}

	for {
		select {
		case e, ok := <-d.ch:
			if !ok {
				flush()
				d.logger.Debug("event worker finished")
				return
			}
			batch = append(batch, e)
			if len(batch) >= d.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
