package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func execute(t *testing.T, args ...string) (stdout string, stderr string, err error) {
	var out, errOut bytes.Buffer

	root := newRootCmd()
	root.SetArgs(append(args, "--log-format", "json"))
	root.SetOut(&out)
	root.SetErr(&errOut)

	err = root.Execute()

	stdout = out.String()
	stderr = errOut.String()
	return
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	out, _, err := execute(t, "defines")
	assert.NoError(err)
	assert.Contains(out, ".equ SYS_YIELD 0\n")
	assert.Contains(out, ".equ SYS_WRITE 1\n")
	assert.Contains(out, ".equ PSR_USR_IRQ 0x50\n")
}

func TestAsm(t *testing.T) {
	assert := assert.New(t)

	out, _, err := execute(t, "asm", "../../samples/p1.s", "--origin", "0x8000")
	assert.NoError(err)
	assert.Contains(out, "00008000: 50310a")
	assert.Contains(out, "svc")

	_, _, err = execute(t, "asm", "../../samples/missing.s")
	assert.Error(err)
}

func TestRun(t *testing.T) {
	assert := assert.New(t)

	out, stderr, err := execute(t, "run", "-c", "../../samples/lab3.yaml", "--ticks", "5000", "--trace")
	assert.NoError(err)
	assert.True(strings.HasPrefix(out, "P1\nP2\n"), out)
	assert.Contains(stderr, "trace: [0 1 0")

	_, _, err = execute(t, "run")
	assert.Error(err)
}
