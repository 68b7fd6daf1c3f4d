package device

import (
	"errors"

	"github.com/ezrec/ukern/translate"
)

var f = translate.From

var (
	// Uart errors
	ErrUartDisconnected = errors.New(f("uart disconnected"))
)
