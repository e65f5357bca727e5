package arduino

import (
	"fmt"
)

// ProcessAndWait отправляет команду и ждет подтверждения от Arduino
func ProcessAndWait(port Port, send func(Port) error) error {
	if err := send(port); err != nil {
		return err
	}
	if err := WaitForResponse(port, ackResponse); err != nil {
		return fmt.Errorf("error waiting for Arduino response: %w", err)
	}
	return nil
}
