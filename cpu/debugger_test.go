package cpu_test

import (
	"testing"

	"github.com/beevik/goz80/cpu"
)

type breakRecorder struct {
	pcs   []uint16
	datas []uint16
}

func (r *breakRecorder) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	r.pcs = append(r.pcs, b.Address)
}

func (r *breakRecorder) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	r.datas = append(r.datas, b.Address)
}

func TestBreakpoints(t *testing.T) {
	c := loadCPU(t, 0x00, 0x00, 0x00, 0x00)
	var r breakRecorder
	d := cpu.NewDebugger(&r)
	c.AttachDebugger(d)

	d.AddBreakpoint(2)
	d.AddBreakpoint(3).Disabled = true
	d.AddStepOverBreakpoint(1)

	stepCPU(t, c, 4)
	if len(r.pcs) != 2 || r.pcs[0] != 1 || r.pcs[1] != 2 {
		t.Errorf("breakpoint hits incorrect: %v", r.pcs)
	}
	if d.GetBreakpoint(1) != nil {
		t.Error("step-over breakpoint should be removed once hit")
	}
	if b := d.GetBreakpoint(2); b == nil || b.Hits != 1 {
		t.Error("breakpoint hit count incorrect")
	}

	bps := d.GetBreakpoints()
	if len(bps) != 2 || bps[0].Address != 2 || bps[1].Address != 3 {
		t.Errorf("breakpoint listing incorrect")
	}

	d.RemoveBreakpoint(2)
	if d.GetBreakpoint(2) != nil {
		t.Error("breakpoint not removed")
	}
}

func TestDataBreakpoints(t *testing.T) {
	// LD A,1; LD ($C000),A; LD A,2; LD ($C000),A; LD ($C001),A
	c := loadCPU(t, 0x3e, 0x01, 0x32, 0x00, 0xc0, 0x3e, 0x02, 0x32, 0x00, 0xc0, 0x32, 0x01, 0xc0)
	var r breakRecorder
	d := cpu.NewDebugger(&r)
	c.AttachDebugger(d)

	d.AddConditionalDataBreakpoint(0xc000, 0x02)
	d.AddDataBreakpoint(0xc001)

	stepCPU(t, c, 5)
	if len(r.datas) != 2 || r.datas[0] != 0xc000 || r.datas[1] != 0xc001 {
		t.Errorf("data breakpoint hits incorrect: %v", r.datas)
	}
	expectMem(t, c, 0xc001, 0x02)

	dbps := d.GetDataBreakpoints()
	if len(dbps) != 2 || dbps[0].Address != 0xc000 {
		t.Error("data breakpoint listing incorrect")
	}

	c.DetachDebugger()
	d.RemoveDataBreakpoint(0xc000)
	if d.GetDataBreakpoint(0xc000) != nil {
		t.Error("data breakpoint not removed")
	}
}

func TestDataBreakpointOnPush(t *testing.T) {
	c := loadCPU(t, 0xc5)
	var r breakRecorder
	d := cpu.NewDebugger(&r)
	c.AttachDebugger(d)
	d.AddDataBreakpoint(cpu.StackTop - 1)

	stepCPU(t, c, 1)
	if len(r.datas) != 1 {
		t.Errorf("push should trigger the stack data breakpoint")
	}
}
