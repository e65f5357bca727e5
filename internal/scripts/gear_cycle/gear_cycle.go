// Package gear_cycle основной цикл бота: снимок, распознавание, решение, действие.
package gear_cycle

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"gearbot/internal/config"
	"gearbot/internal/database"
	"gearbot/internal/gear"
	imageInternal "gearbot/internal/image"
	"gearbot/internal/logger"
	"gearbot/internal/metrics"
)

type FrameSource interface {
	CaptureFrame() (image.Image, error)
}

// ItemReader распознает области кадра и собирает из них предмет
type ItemReader interface {
	Read(frame image.Image) (map[string]string, error)
	Assemble(raw map[string]string) (gear.Item, error)
}

type Engine interface {
	Explain(item gear.Item) (gear.Decision, string)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, decision gear.Decision, item gear.Item) error
	Run(ctx context.Context, action string, item gear.Item) error
}

type Journal interface {
	SaveDecisionAsync(r database.Record)
}

type Observer interface {
	ObserveDecision(d gear.Decision)
	ObserveError(stage string)
	ObserveCycle(d time.Duration)
}

// Deps всё, что нужно циклу. Journal, Observer и Interrupt могут быть nil
type Deps struct {
	Frames     FrameSource
	Reader     ItemReader
	Engine     Engine
	Dispatcher Dispatcher
	Journal    Journal
	Observer   Observer
	Interrupt  <-chan bool
	Logger     *logger.LoggerManager
	Cycle      config.Cycle
	// DumpDir куда сохранять кадры, которые не удалось распознать; "" - не сохранять
	DumpDir string
	Sleep   func(ctx context.Context, d time.Duration) error
}

// Stats итог работы цикла
type Stats struct {
	Cycles    int
	Errors    int
	Decisions map[gear.Decision]int
}

type nopObserver struct{}

func (nopObserver) ObserveDecision(gear.Decision) {}
func (nopObserver) ObserveError(string) {}
func (nopObserver) ObserveCycle(time.Duration) {}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Observer == nil {
		d.Observer = nopObserver{}
	}
	if d.Sleep == nil {
		d.Sleep = sleepContext
	}
	return d
}

// Run крутит циклы по одному, пока не отменен ctx, не пришло прерывание
// или не достигнут max_cycles. Прерывание пользователем не ошибка
func Run(ctx context.Context, deps Deps) (Stats, error) {
	d := deps.withDefaults()
	stats := Stats{Decisions: make(map[gear.Decision]int)}
	interval := time.Duration(d.Cycle.IntervalMs) * time.Millisecond

	for d.Cycle.MaxCycles == 0 || stats.Cycles < d.Cycle.MaxCycles {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-d.Interrupt:
			d.Logger.Info("⏹️ Прерывание цикла по запросу пользователя")
			return stats, nil
		default:
		}

		if d.Cycle.MaxCycles > 0 {
			d.Logger.Info("🔄 Цикл %d из %d", stats.Cycles+1, d.Cycle.MaxCycles)
		} else {
			d.Logger.Info("🔄 Цикл %d", stats.Cycles+1)
		}

		start := time.Now()
		if err := runCycle(ctx, d, &stats); err != nil {
			return stats, err
		}
		stats.Cycles++
		d.Observer.ObserveCycle(time.Since(start))

		if d.Cycle.MaxCycles > 0 && stats.Cycles >= d.Cycle.MaxCycles {
			break
		}
		if err := d.Sleep(ctx, interval); err != nil {
			return stats, err
		}
	}
	d.Logger.Info("✅ Выполнено циклов: %d, ошибок: %d", stats.Cycles, stats.Errors)
	return stats, nil
}

// Serve запускает Run на каждый сигнал из starts и ждет следующего.
// Выходит при отмене ctx, закрытии starts или настоящей ошибке Run.
// running, если задан, получает true перед запуском и false после
func Serve(ctx context.Context, starts <-chan bool, running func(bool), deps Deps) error {
	d := deps.withDefaults()
	if running == nil {
		running = func(bool) {}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-starts:
			if !ok {
				return nil
			}
			d.Logger.Info("🚀 Запуск цикла обработки предметов...")
			running(true)
			stats, err := Run(ctx, d)
			running(false)
			if err != nil && !IsStop(err) {
				return err
			}
			d.Logger.Info("✅ Цикл завершен: %d предметов, решения %v", stats.Cycles, stats.Decisions)
		}
	}
}

// runCycle возвращает ошибку только при отмене контекста, остальные
// ошибки завершают текущий цикл
func runCycle(ctx context.Context, d Deps, stats *Stats) error {
	frame, err := d.Frames.CaptureFrame()
	if err != nil {
		fail(d, stats, metrics.StageCapture, err, "Ошибка снимка экрана")
		return nil
	}

	cycleID := uuid.New()
	item, raw, err := recognize(d.Reader, frame)
	if err != nil {
		fail(d, stats, metrics.StageRecognize, err, "Ошибка распознавания предмета")
		dumpFrame(d, cycleID, frame)
	} else {
		decision, reason := d.Engine.Explain(item)
		d.Logger.Info("🎯 %s %s %s +%d: %s (%s)", item.Rarity, item.Set, item.Type, item.Level, decision, reason)
		stats.Decisions[decision]++
		d.Observer.ObserveDecision(decision)
		if d.Journal != nil {
			d.Journal.SaveDecisionAsync(database.NewRecord(cycleID, item, decision, reason, raw))
		}

		if err := d.Dispatcher.Dispatch(ctx, decision, item); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fail(d, stats, metrics.StageDispatch, err, "Ошибка выполнения действия")
		}
	}

	// к следующему предмету переходим и после ошибки, иначе бот застрянет на этом
	if err := d.Dispatcher.Run(ctx, config.ActionNext, item); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fail(d, stats, metrics.StageDispatch, err, "Ошибка перехода к следующему предмету")
	}
	return nil
}

func recognize(r ItemReader, frame image.Image) (gear.Item, map[string]string, error) {
	raw, err := r.Read(frame)
	if err != nil {
		return gear.Item{}, nil, err
	}
	item, err := r.Assemble(raw)
	if err != nil {
		return gear.Item{}, raw, err
	}
	return item, raw, nil
}

func fail(d Deps, stats *Stats, stage string, err error, msg string) {
	stats.Errors++
	d.Observer.ObserveError(stage)
	d.Logger.LogError(err, msg)
}

func dumpFrame(d Deps, cycleID uuid.UUID, frame image.Image) {
	if d.DumpDir == "" {
		return
	}
	path := filepath.Join(d.DumpDir, fmt.Sprintf("%s_frame.png", cycleID))
	if err := imageInternal.SavePNG(frame, path); err != nil {
		d.Logger.LogError(err, "Не удалось сохранить кадр")
		return
	}
	d.Logger.Debug("🖼️ кадр сохранен: %s", path)
}

// IsStop отличает штатную остановку от настоящей ошибки
func IsStop(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
