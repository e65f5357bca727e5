package match

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownBackend = errors.New("unknown matcher backend")

// DefaultBackend чистый Go, без cgo
const DefaultBackend = "ncc"

var backends = map[string]func() Matcher{
	DefaultBackend: func() Matcher { return NCC{} },
}

// Register добавляет бэкенд. Вызывается только из init
func Register(name string, factory func() Matcher) {
	backends[name] = factory
}

// New возвращает бэкенд по имени из конфигурации; пустое имя - бэкенд по умолчанию
func New(name string) (Matcher, error) {
	if name == "" {
		name = DefaultBackend
	}
	factory, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Backends())
	}
	return factory(), nil
}

// Backends список доступных в этой сборке бэкендов
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
