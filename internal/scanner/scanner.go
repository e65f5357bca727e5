// Package scanner читает все области экрана предмета и собирает из них gear.Item.
package scanner

import (
	"fmt"
	"image"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"gearbot/internal/config"
	"gearbot/internal/gear"
	imageInternal "gearbot/internal/image"
	"gearbot/internal/logger"
	"gearbot/internal/match"
	"gearbot/internal/ocr"
)

type namedRegion struct {
	name   string
	cfg    config.RegionConfig
	region imageInternal.Region
	set    *ocr.TemplateSet
}

// Builder наборы шаблонов загружаются один раз и дальше только читаются,
// поэтому один Builder можно звать из разных горутин
type Builder struct {
	regions []namedRegion
	glyph   *ocr.GlyphRecognizer
	pattern *ocr.PatternRecognizer
	policy  string
	logger  *logger.LoggerManager
}

// NewBuilder загружает наборы шаблонов из <templates_root>/<templates> для каждой области
func NewBuilder(cfg *config.Config, matcher match.Matcher, diag ocr.Diagnostics, loggerManager *logger.LoggerManager) (*Builder, error) {
	sets := make(map[string]*ocr.TemplateSet)
	for _, r := range cfg.Regions {
		if _, ok := sets[r.Templates]; ok {
			continue
		}
		set, err := ocr.LoadTemplateSet(filepath.Join(cfg.TemplatesRoot, r.Templates))
		if err != nil {
			return nil, err
		}
		sets[r.Templates] = set
	}
	return NewBuilderWithSets(cfg.Regions, sets, cfg.PropertyPolicy, matcher, diag, loggerManager)
}

// NewBuilderWithSets наборы уже загружены; ключ - поле templates области
func NewBuilderWithSets(regions map[string]config.RegionConfig, sets map[string]*ocr.TemplateSet, policy string, matcher match.Matcher, diag ocr.Diagnostics, loggerManager *logger.LoggerManager) (*Builder, error) {
	if loggerManager == nil {
		loggerManager = logger.Nop()
	}

	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)

	b := &Builder{
		glyph:   ocr.NewGlyphRecognizer(matcher, diag),
		pattern: ocr.NewPatternRecognizer(matcher, diag),
		policy:  policy,
		logger:  loggerManager,
	}
	for _, name := range names {
		r := regions[name]
		set, ok := sets[r.Templates]
		if !ok {
			return nil, fmt.Errorf("%w: region %q: no template set %q", ocr.ErrTemplateLoadFailed, name, r.Templates)
		}
		b.regions = append(b.regions, namedRegion{
			name:   name,
			cfg:    r,
			region: imageInternal.RegionFromSize(r.X, r.Y, r.Width, r.Height),
			set:    set,
		})
	}
	loggerManager.Info("📋 загружено областей: %d", len(b.regions))
	return b, nil
}

// Read распознает все области кадра. Области независимы и читаются параллельно,
// результат не зависит от порядка выполнения
func (b *Builder) Read(frame image.Image) (map[string]string, error) {
	values := make([]string, len(b.regions))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, r := range b.regions {
		g.Go(func() error {
			v, err := b.recognize(frame, r)
			if err != nil {
				return fmt.Errorf("region %s: %w", r.name, err)
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw := make(map[string]string, len(b.regions))
	for i, r := range b.regions {
		raw[r.name] = values[i]
	}
	return raw, nil
}

func (b *Builder) recognize(frame image.Image, r namedRegion) (string, error) {
	gray, err := imageInternal.SliceGray(frame, r.region)
	if err != nil {
		return "", err
	}
	switch r.cfg.Kind {
	case config.KindGlyph:
		return b.glyph.RecognizeString(gray, r.set, r.cfg.Threshold)
	case config.KindPattern:
		return b.pattern.RecognizeLabel(gray, r.set, r.cfg.Threshold)
	}
	return "", fmt.Errorf("%w: kind %q", config.ErrInvalidConfig, r.cfg.Kind)
}

// Assemble предмет из уже распознанных строк
func (b *Builder) Assemble(raw map[string]string) (gear.Item, error) {
	return Assemble(raw, b.policy, b.logger)
}

// BuildItem один кадр в один предмет
func (b *Builder) BuildItem(frame image.Image) (gear.Item, error) {
	raw, err := b.Read(frame)
	if err != nil {
		return gear.Item{}, err
	}
	return b.Assemble(raw)
}
