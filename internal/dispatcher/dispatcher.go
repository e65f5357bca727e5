// Package dispatcher превращает решение по предмету в последовательность нажатий.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gearbot/internal/config"
	"gearbot/internal/gear"
	imageInternal "gearbot/internal/image"
	"gearbot/internal/logger"
	"gearbot/internal/match"
)

var (
	ErrImageNotFound = errors.New("image not found on screen")
	ErrUnknownStep   = errors.New("unknown step kind")
	ErrNoAction      = errors.New("no steps configured for action")
)

const (
	defaultImageThreshold = 0.9
	pollInterval          = 100 * time.Millisecond
)

// Clicker нажатие по координатам внутри окна игры
type Clicker interface {
	Click(ctx context.Context, x, y int) error
}

// FrameSource свежий кадр окна игры
type FrameSource interface {
	CaptureFrame() (image.Image, error)
}

// Dispatcher выполняет сценарии из конфигурации
type Dispatcher struct {
	actions   map[string][]config.Step
	imageRoot string
	matcher   match.Matcher
	clicker   Clicker
	frames    FrameSource
	logger    *logger.LoggerManager

	mu     sync.Mutex
	images map[string]*image.Gray

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDispatcher с matcher == nil ищет изображения квадратичной разностью
func NewDispatcher(cfg *config.Config, matcher match.Matcher, clicker Clicker, frames FrameSource, loggerManager *logger.LoggerManager) *Dispatcher {
	if loggerManager == nil {
		loggerManager = logger.Nop()
	}
	return &Dispatcher{
		actions:   cfg.Actions,
		imageRoot: cfg.TemplatesRoot,
		matcher:   matcher,
		clicker:   clicker,
		frames:    frames,
		logger:    loggerManager,
		images:    make(map[string]*image.Gray),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

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

// ActionName имя сценария для решения: UPGRADE -> "upgrade"
func ActionName(d gear.Decision) string {
	return strings.ToLower(d.String())
}

// Dispatch выполняет сценарий решения. Возвращается только после последнего шага
func (d *Dispatcher) Dispatch(ctx context.Context, decision gear.Decision, item gear.Item) error {
	return d.Run(ctx, ActionName(decision), item)
}

// Run выполняет сценарий по имени
func (d *Dispatcher) Run(ctx context.Context, action string, item gear.Item) error {
	steps, ok := d.actions[action]
	if !ok || len(steps) == 0 {
		return fmt.Errorf("%w: %q", ErrNoAction, action)
	}
	d.logger.Info("▶️ сценарий %s: %d шагов", action, len(steps))
	for i, s := range steps {
		if err := d.step(ctx, s, item); err != nil {
			return fmt.Errorf("action %s step %d (%s): %w", action, i, s.Kind, err)
		}
	}
	return nil
}

func (d *Dispatcher) step(ctx context.Context, s config.Step, item gear.Item) error {
	switch s.Kind {
	case config.StepTap:
		return d.clicker.Click(ctx, s.X, s.Y)
	case config.StepWait:
		return d.sleep(ctx, time.Duration(s.Ms)*time.Millisecond)
	case config.StepTapImage:
		return d.tapImage(ctx, s.Image, s)
	case config.StepWaitImage:
		_, err := d.locate(ctx, s.Image, s)
		return err
	case config.StepTapUpgradeOption:
		next, ok := gear.NextCheckpoint(item.Level)
		if !ok {
			return fmt.Errorf("%w: no upgrade option above level %d", ErrImageNotFound, item.Level)
		}
		return d.tapImage(ctx, fmt.Sprintf(s.ImagePattern, next), s)
	}
	return fmt.Errorf("%w: %q", ErrUnknownStep, s.Kind)
}

func (d *Dispatcher) tapImage(ctx context.Context, name string, s config.Step) error {
	at, err := d.locate(ctx, name, s)
	if err != nil {
		return err
	}
	return d.clicker.Click(ctx, at.X, at.Y)
}

// locate ждет появления изображения до timeout_ms и возвращает его центр
// в координатах окна. Если задан search, ищет только внутри этой области
func (d *Dispatcher) locate(ctx context.Context, name string, s config.Step) (image.Point, error) {
	tmpl, err := d.template(name)
	if err != nil {
		return image.Point{}, err
	}
	threshold := s.Threshold
	if threshold == 0 {
		threshold = defaultImageThreshold
	}

	deadline := d.now().Add(time.Duration(s.TimeoutMs) * time.Millisecond)
	best := 0.0
	for {
		if err := ctx.Err(); err != nil {
			return image.Point{}, err
		}
		frame, err := d.frames.CaptureFrame()
		if err != nil {
			return image.Point{}, err
		}
		area, offset, err := searchArea(frame, s.Search)
		if err != nil {
			return image.Point{}, err
		}
		similar, center, err := d.bestMatch(area, tmpl)
		if err != nil {
			return image.Point{}, err
		}
		if similar >= threshold {
			at := center.Add(offset)
			d.logger.Debug("🔎 %s найдено в %v (%.3f)", name, at, similar)
			return at, nil
		}
		best = max(best, similar)

		if !d.now().Before(deadline) {
			return image.Point{}, fmt.Errorf("%w: %s (best %.3f < %.3f)", ErrImageNotFound, name, best, threshold)
		}
		if err := d.sleep(ctx, pollInterval); err != nil {
			return image.Point{}, err
		}
	}
}

// searchArea вырезает область поиска; пустая область означает весь кадр
func searchArea(frame image.Image, search config.CoordinatesWithSize) (*image.Gray, image.Point, error) {
	if search.Width == 0 || search.Height == 0 {
		return imageInternal.FlattenTransparency(frame), image.Point{}, nil
	}
	r := imageInternal.RegionFromSize(search.X, search.Y, search.Width, search.Height)
	area, err := imageInternal.SliceGray(frame, r)
	if err != nil {
		return nil, image.Point{}, err
	}
	return area, image.Pt(r.X1, r.Y1), nil
}

// bestMatch возвращает сходство лучшего совпадения и центр шаблона в координатах area
func (d *Dispatcher) bestMatch(area, tmpl *image.Gray) (float64, image.Point, error) {
	if d.matcher == nil {
		found, err := match.FindBest(area, tmpl)
		if err != nil {
			return 0, image.Point{}, err
		}
		return found.Similar(), found.Center(), nil
	}
	scores, err := d.matcher.MatchAll(area, tmpl)
	if err != nil {
		return 0, image.Point{}, err
	}
	score, loc, ok := scores.Max()
	if !ok {
		return 0, image.Point{}, nil
	}
	return score, loc.Add(image.Pt(tmpl.Rect.Dx()/2, tmpl.Rect.Dy()/2)), nil
}

// template читает изображение один раз и дальше берет из кэша
func (d *Dispatcher) template(name string) (*image.Gray, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if g, ok := d.images[name]; ok {
		return g, nil
	}
	img, err := imageInternal.LoadPNG(filepath.Join(d.imageRoot, name))
	if err != nil {
		return nil, err
	}
	g := imageInternal.FlattenTransparency(img)
	d.images[name] = g
	return g, nil
}
