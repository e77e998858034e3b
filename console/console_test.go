package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/drivers/ds3231"
	"github.com/ajanata/drivers/internal/i2cfake"
)

func newShell(c *qt.C) (*Shell, *i2cfake.Bus, *bytes.Buffer) {
	bus := i2cfake.New(ds3231.Address)
	d := ds3231.New(bus)
	c.Assert(d.Configure(ds3231.Config{BatteryBacked: true}), qt.IsNil)
	out := &bytes.Buffer{}
	return &Shell{RTC: d, Out: out}, bus, out
}

func TestNow(t *testing.T) {
	c := qt.New(t)
	s, bus, out := newShell(c)
	bus.Regs[ds3231.RegSeconds] = 0x45
	bus.Regs[ds3231.RegMinutes] = 0x30
	bus.Regs[ds3231.RegHours] = 0x19
	bus.Regs[ds3231.RegDate] = 0x04
	bus.Regs[ds3231.RegMonth] = 0x07
	bus.Regs[ds3231.RegYear] = 0x21

	c.Assert(s.Exec("now"), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "19:30:45 2021-07-04\n")
}

func TestSetters(t *testing.T) {
	c := qt.New(t)
	s, bus, _ := newShell(c)

	c.Assert(s.Exec("settime 7 5 9"), qt.IsNil)
	c.Assert(s.Exec("setdate 24 12 31"), qt.IsNil)
	c.Assert(s.Exec("setdow 3"), qt.IsNil)
	c.Assert(bus.Writes, qt.DeepEquals, []i2cfake.Write{
		{Reg: ds3231.RegHours, Val: 0x07},
		{Reg: ds3231.RegMinutes, Val: 0x05},
		{Reg: ds3231.RegSeconds, Val: 0x09},
		{Reg: ds3231.RegYear, Val: 0x24},
		{Reg: ds3231.RegMonth, Val: 0x12},
		{Reg: ds3231.RegDate, Val: 0x31},
		{Reg: ds3231.RegDay, Val: 0x03},
	})

	c.Assert(s.Exec("settime 25 0 0"), qt.ErrorMatches, `ds3231: hour 25 out of range \[0, 23\]`)
	c.Assert(s.Exec("settime 1 2"), qt.ErrorMatches, `usage: settime H M S`)
	c.Assert(s.Exec("setdate a b c"), qt.ErrorMatches, `"a" is not a number`)
}

func TestSync(t *testing.T) {
	c := qt.New(t)
	s, bus, _ := newShell(c)
	s.Clock = func() time.Time { return time.Date(2030, time.January, 6, 8, 0, 0, 0, time.UTC) }

	c.Assert(s.Exec("sync"), qt.IsNil)
	c.Assert(bus.Regs[ds3231.RegYear], qt.Equals, uint8(0x30))
	c.Assert(bus.Regs[ds3231.RegDay], qt.Equals, uint8(1)) // Sunday
	c.Assert(bus.Regs[ds3231.RegHours], qt.Equals, uint8(0x08))
}

func TestTemp(t *testing.T) {
	c := qt.New(t)
	s, bus, out := newShell(c)
	bus.Regs[ds3231.RegTemperatureH] = 0x17
	bus.Regs[ds3231.RegTemperatureL] = 0x40

	c.Assert(s.Exec("temp"), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "23.25 C\n")
}

func TestControl(t *testing.T) {
	c := qt.New(t)
	s, bus, out := newShell(c)
	bus.Regs[ds3231.RegControl] = 0x1C

	c.Assert(s.Exec("control"), qt.IsNil)
	c.Assert(out.String(), qt.Equals,
		"0x1C AL1E=0 AL2E=0 INTCN=1 RS1=1 RS2=1 CONV=0 BBSQW=0 EOSC=0 freq=8192Hz\n")

	c.Assert(s.Exec("setbit bbsqw"), qt.IsNil)
	c.Assert(s.Exec("setbit 0"), qt.IsNil)
	c.Assert(bus.Regs[ds3231.RegControl], qt.Equals, uint8(0x5D))
	c.Assert(s.Exec("setbit 8"), qt.ErrorIs, ds3231.ErrInvalidControlBit)
	c.Assert(s.Exec("setbit OSF"), qt.ErrorMatches, `unknown control bit "OSF"`)

	c.Assert(s.Exec("sqwint off"), qt.IsNil)
	c.Assert(bus.Regs[ds3231.RegControl], qt.Equals, uint8(0x59))
	c.Assert(s.Exec("freq 1024HZ"), qt.IsNil)
	c.Assert(bus.Regs[ds3231.RegControl], qt.Equals, uint8(0x49))
	c.Assert(s.Exec("freq 2hz"), qt.ErrorMatches, `usage: freq .*`)
	c.Assert(s.Exec("sqwint maybe"), qt.ErrorMatches, `usage: sqwint on\|off`)
}

func TestAlarm(t *testing.T) {
	c := qt.New(t)
	s, bus, out := newShell(c)

	c.Assert(s.Exec("alarm set 1 19 24 4"), qt.IsNil)
	c.Assert(s.Exec("alarm set 2 6 5 3 dow"), qt.IsNil)
	c.Assert(bus.Regs[ds3231.RegAlarm1Day], qt.Equals, uint8(0x04))
	c.Assert(bus.Regs[ds3231.RegAlarm2Day], qt.Equals, uint8(0x43))
	c.Assert(s.Exec("alarm get 2"), qt.IsNil)

	bus.Regs[ds3231.RegStatus] = 0x02
	c.Assert(s.Exec("alarm check 2"), qt.IsNil)
	c.Assert(s.Exec("alarm check 2"), qt.IsNil)
	c.Assert(out.String(), qt.Equals, strings.Join([]string{
		"alarm 1 set for 19:24",
		"alarm 2 set for 06:05",
		"alarm 2 06:05",
		"alarm 2 fired",
		"alarm 2 idle",
		"",
	}, "\n"))

	c.Assert(s.Exec("alarm check 3"), qt.ErrorIs, ds3231.ErrInvalidAlarm)
	c.Assert(s.Exec("alarm set 1 19"), qt.ErrorMatches, `usage: alarm .*`)
	c.Assert(s.Exec("alarm snooze 1"), qt.ErrorMatches, `usage: alarm .*`)
}

func TestStatusAndAging(t *testing.T) {
	c := qt.New(t)
	s, bus, out := newShell(c)
	bus.Regs[ds3231.RegStatus] = 0x81

	c.Assert(s.Exec("status"), qt.IsNil)
	c.Assert(s.Exec("aging -7"), qt.IsNil)
	c.Assert(s.Exec("aging"), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "0x81 A1F=1 A2F=0 BSY=0 OSF=1\naging offset -7\n")
	c.Assert(s.Exec("aging 200"), qt.ErrorMatches, `aging offset must be -128..127: "200"`)
}

func TestExecUnknown(t *testing.T) {
	c := qt.New(t)
	s, _, _ := newShell(c)

	c.Assert(s.Exec("reboot now"), qt.ErrorIs, ErrUnknownCommand)
	c.Assert(s.Exec("reboot now"), qt.ErrorMatches, `unknown command "reboot"`)
	c.Assert(s.Exec(""), qt.IsNil)
	c.Assert(s.Exec("  # just a comment"), qt.IsNil)
	c.Assert(s.Exec(`settime "1 2" 3`), qt.ErrorMatches, `usage: settime H M S`)
}

func TestRun(t *testing.T) {
	c := qt.New(t)
	s, bus, out := newShell(c)
	bus.Regs[ds3231.RegTemperatureH] = 0x15

	in := strings.NewReader("temp\nbogus\nquit\ntemp\n")
	c.Assert(s.Run(context.Background(), in), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "21.00 C\nerror: unknown command \"bogus\"\n")
}

func TestRunBusError(t *testing.T) {
	c := qt.New(t)
	s, bus, out := newShell(c)
	bus.FailReads = true

	c.Assert(s.Run(context.Background(), strings.NewReader("now\n")), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "error: ds3231: read register 0x00: i2cfake: injected failure\n")
}

func TestHelp(t *testing.T) {
	c := qt.New(t)
	s, _, out := newShell(c)

	c.Assert(s.Exec("help"), qt.IsNil)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	c.Assert(lines, qt.HasLen, len(commands))
	c.Assert(strings.HasPrefix(lines[0], "aging [V]"), qt.IsTrue)
}
