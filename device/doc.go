// Package device provides simulated peripherals for the ukern emulator.
//
// Sp804 models the periodic timer, Gic the generic interrupt controller
// (distributor plus CPU interface), and Uart a blocking character output
// port. Each device exposes the register-level operations that a kernel
// performs on the real hardware, plus the hooks that an emulator needs to
// advance simulated time and route interrupt lines.
package device
