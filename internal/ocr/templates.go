package ocr

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	imageInternal "gearbot/internal/image"
)

var ErrTemplateLoadFailed = errors.New("template load failed")

// Template эталон одного символа или значка
type Template struct {
	Label string
	Image *image.Gray
}

// TemplateSet упорядоченный набор меток и эталонов. После загрузки только читается
type TemplateSet struct {
	Name      string
	templates []Template
}

func NewTemplateSet(name string) *TemplateSet {
	return &TemplateSet{Name: name}
}

// Add регистрирует эталон. Повторная метка заменяет изображение, сохраняя позицию
func (s *TemplateSet) Add(label string, img image.Image) *TemplateSet {
	gray := imageInternal.FlattenTransparency(img)
	for i := range s.templates {
		if s.templates[i].Label == label {
			s.templates[i].Image = gray
			return s
		}
	}
	s.templates = append(s.templates, Template{Label: label, Image: gray})
	return s
}

func (s *TemplateSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.templates)
}

// Templates эталоны в порядке регистрации
func (s *TemplateSet) Templates() []Template {
	if s == nil {
		return nil
	}
	return s.templates
}

func (s *TemplateSet) Labels() []string {
	labels := make([]string, 0, s.Len())
	for _, t := range s.Templates() {
		labels = append(labels, t.Label)
	}
	return labels
}

// LoadTemplateSet читает все *.png из директории. Метка - имя файла без расширения,
// порядок регистрации - лексикографический порядок имен
func LoadTemplateSet(dir string) (*TemplateSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplateLoadFailed, dir, err)
	}

	set := NewTemplateSet(filepath.Base(dir))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".png") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		img, err := imageInternal.LoadPNG(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTemplateLoadFailed, err)
		}
		label := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		set.Add(label, img)
	}
	return set, nil
}
