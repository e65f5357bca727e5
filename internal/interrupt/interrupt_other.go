//go:build !windows

package interrupt

import (
	"os"
	"os/signal"
	"syscall"
)

// Hotkeys описание для подсказки в логе
const Hotkeys = "запуск сразу, Ctrl+C - прерывание, повторный Ctrl+C - выход"

// monitor без глобального перехвата клавиатуры: один автозапуск, затем сигналы.
// Сигнал при запущенном скрипте прерывает его, иначе завершает ожидание
func (im *InterruptManager) monitor() {
	im.RequestStart()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	for range signals {
		if im.IsScriptRunning() {
			im.RequestInterrupt()
			continue
		}
		im.Stop()
		return
	}
}
