package ocr

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	imageInternal "gearbot/internal/image"
	"gearbot/internal/logger"
)

// Diagnostics получает области, в которых ничего не распознано
type Diagnostics interface {
	RecordMiss(kind string, region *image.Gray)
}

type NopDiagnostics struct{}

func (NopDiagnostics) RecordMiss(string, *image.Gray) {}

// Miss одна записанная неудача
type Miss struct {
	Kind   string
	Region *image.Gray
}

// MemoryDiagnostics копит неудачи в памяти
type MemoryDiagnostics struct {
	mu     sync.Mutex
	misses []Miss
}

func (d *MemoryDiagnostics) RecordMiss(kind string, region *image.Gray) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.misses = append(d.misses, Miss{Kind: kind, Region: region})
}

func (d *MemoryDiagnostics) Misses() []Miss {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Miss(nil), d.misses...)
}

// DiskDiagnostics сохраняет каждую неудачу как PNG: <dir>/<kind>_<n>.png.
// Счетчик принадлежит экземпляру
type DiskDiagnostics struct {
	dir    string
	logger *logger.LoggerManager

	mu  sync.Mutex
	seq int
}

func NewDiskDiagnostics(dir string, loggerManager *logger.LoggerManager) *DiskDiagnostics {
	return &DiskDiagnostics{dir: dir, logger: loggerManager}
}

func (d *DiskDiagnostics) RecordMiss(kind string, region *image.Gray) {
	d.mu.Lock()
	d.seq++
	n := d.seq
	d.mu.Unlock()

	name := fmt.Sprintf("%s_%d.png", sanitize(kind), n)
	path := filepath.Join(d.dir, name)
	if err := imageInternal.SavePNG(region, path); err != nil {
		d.logger.LogError(err, "не удалось сохранить нераспознанную область")
		return
	}
	d.logger.Debug("🔍 нераспознанная область сохранена: %s", path)
}

// Count сколько неудач записано этим экземпляром
func (d *DiskDiagnostics) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
