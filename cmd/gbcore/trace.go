package main

import (
	"fmt"
	"io"

	"github.com/dmgcore/gbcore/internal/machine"
)

// traceMachineInstructions runs the machine for up to maxCycles machine
// cycles, printing one line per dispatched instruction (the moment
// BusyCycles() is 0 coming into a Tick), the same PC/register/flag columns
// the teacher's cmd/cpurunner trace mode prints.
func traceMachineInstructions(m *machine.Machine, maxCycles int, w io.Writer) {
	for i := 0; i < maxCycles; i++ {
		traceLine(m, w)
		m.Tick()
	}
}

// traceLine prints one trace row if the machine is about to dispatch a new
// instruction; it is a no-op mid-instruction or while halted. Shared by the
// trace subcommand and the run subcommand's gbconfig.toml trace=true option.
func traceLine(m *machine.Machine, w io.Writer) {
	c := m.CPU()
	if c.BusyCycles() != 0 || c.Halted {
		return
	}
	pc := c.PC
	op := m.ReadBus(pc)
	fmt.Fprintf(w, "PC=%04X OP=%02X A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X IME=%t IF=%02X IE=%02X\n",
		pc, op, c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L, c.SP, c.IME, m.IF(), m.IE())
}
