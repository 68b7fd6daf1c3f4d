package device

import (
	"io"
	"log"
)

// Uart is a PL011 style serial port used for character output.
//
// Transmission is blocking: WriteByte returns once the byte has been
// accepted by Output.
type Uart struct {
	Verbose bool      // If set, enables verbose logging.
	Output  io.Writer // Receiver of transmitted bytes.

	Transmitted int // Bytes accepted since reset.
}

var _ io.ByteWriter = (*Uart)(nil)

// Reset clears the transmit statistics.
func (uart *Uart) Reset() {
	uart.Transmitted = 0
}

// WriteByte transmits one byte.
func (uart *Uart) WriteByte(c byte) (err error) {
	if uart.Output == nil {
		err = ErrUartDisconnected
		return
	}

	_, err = uart.Output.Write([]byte{c})
	if err != nil {
		if uart.Verbose {
			log.Printf("uart: %v", err)
		}
		return
	}

	uart.Transmitted++

	return
}
