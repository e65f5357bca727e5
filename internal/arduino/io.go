package arduino

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tarm/serial"
)

var ErrUnexpectedResponse = errors.New("unexpected arduino response")

// Ответ прошивки после выполнения команды
const ackResponse = "received"

// Port то, что нужно от последовательного порта
type Port interface {
	io.ReadWriter
}

func InitializePort(name string, baud int) (*serial.Port, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:     name,
		Baud:     baud,
		Parity:   serial.ParityNone,
		StopBits: serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return port, nil
}

// SendCoordinates команда клика: "click:x,y\n"
func SendCoordinates(port io.Writer, x, y int) error {
	message := fmt.Sprintf("click:%d,%d\n", x, y)
	if _, err := port.Write([]byte(message)); err != nil {
		return fmt.Errorf("error writing to Arduino: %w", err)
	}
	return nil
}

// WaitForResponse читает до перевода строки и сравнивает строку с ожидаемой
func WaitForResponse(port io.Reader, expected string) error {
	var response strings.Builder
	buf := make([]byte, 128)
	for {
		n, err := port.Read(buf)
		response.Write(buf[:n])
		if s := response.String(); strings.HasSuffix(s, "\n") {
			got := strings.TrimSpace(s)
			if got == expected {
				return nil
			}
			return fmt.Errorf("%w: %q", ErrUnexpectedResponse, got)
		}
		if err != nil {
			return fmt.Errorf("error reading from Arduino: %w", err)
		}
	}
}
