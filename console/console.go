// Package console is a line-oriented command shell for a DS3231. It is the text front end of the console example;
// the driver itself only returns data.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"github.com/ajanata/drivers/ds3231"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	errQuit           = errors.New("quit")
)

// RTC is the part of *ds3231.Device the shell drives.
type RTC interface {
	ReadDateTime() (ds3231.TimeOfDay, ds3231.Date, error)
	SetTime(hour, minute, second int) error
	SetDate(year, month, day int) error
	SetDayOfWeek(dow int) error
	Set(t time.Time) error
	ReadTemperature() (whole int, fraction float64, err error)
	ReadControl() (ds3231.Control, error)
	SetControlBit(bit ds3231.ControlBit) error
	SquareWaveInterrupt(enable bool) error
	SetSquareWaveFrequency(f ds3231.Freq) error
	ReadStatus() (ds3231.Status, error)
	SetAlarm(a ds3231.Alarm, hour, minute, day int, dayOfWeek bool) error
	ReadAlarm(a ds3231.Alarm) (hour, minute int, err error)
	AlarmTriggered(a ds3231.Alarm) (bool, error)
	ReadAgingOffset() (int8, error)
	SetAgingOffset(offset int8) error
}

type Shell struct {
	RTC RTC
	Out io.Writer
	// Clock is used by "sync". Defaults to time.Now.
	Clock  func() time.Time
	Logger *zap.Logger
}

type command struct {
	usage string
	help  string
	run   func(s *Shell, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"now":     {"now", "show the chip's time and date", (*Shell).now},
		"settime": {"settime H M S", "set the time (24-hour)", (*Shell).setTime},
		"setdate": {"setdate YY MM DD", "set the date", (*Shell).setDate},
		"setdow":  {"setdow D", "set the day of week (1-7)", (*Shell).setDow},
		"sync":    {"sync", "set the chip from the host clock", (*Shell).sync},
		"temp":    {"temp", "show the temperature", (*Shell).temp},
		"control": {"control", "show the control register", (*Shell).control},
		"setbit":  {"setbit N|NAME", "set a control register bit", (*Shell).setBit},
		"sqwint":  {"sqwint on|off", "route alarm interrupts to SQW, or output a square wave", (*Shell).sqwInt},
		"freq":    {"freq 1hz|1024hz|4096hz|8192hz", "select the square wave frequency", (*Shell).freq},
		"status":  {"status", "show the status register", (*Shell).status},
		"alarm":   {"alarm set N H M D [dow] | alarm get N | alarm check N", "set, show or check an alarm", (*Shell).alarm},
		"aging":   {"aging [V]", "show or set the aging offset", (*Shell).aging},
		"help":    {"help", "list commands", (*Shell).help},
	}
}

// Run executes commands read from in until EOF, "quit" or ctx is done. Command errors are printed and do not stop
// the shell.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	log := s.logger()
	sc := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !sc.Scan() {
			return sc.Err()
		}
		err := s.Exec(sc.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			log.Debug("command failed", zap.String("line", sc.Text()), zap.Error(err))
			fmt.Fprintf(s.Out, "error: %v\n", err)
		}
	}
}

// Exec runs one command line. Blank lines and lines starting with # are ignored.
func (s *Shell) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	if args[0] == "quit" || args[0] == "exit" {
		return errQuit
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, args[0])
	}
	return cmd.run(s, args[1:])
}

func (s *Shell) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.Out, format+"\n", args...)
}

func usage(name string) error {
	return fmt.Errorf("usage: %s", commands[name].usage)
}

func ints(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out[i] = n
	}
	return out, nil
}

func (s *Shell) now(args []string) error {
	t, d, err := s.RTC.ReadDateTime()
	if err != nil {
		return err
	}
	s.printf("%02d:%02d:%02d 20%02d-%02d-%02d", t.Hour, t.Minute, t.Second, d.Year, d.Month, d.Day)
	return nil
}

func (s *Shell) setTime(args []string) error {
	if len(args) != 3 {
		return usage("settime")
	}
	n, err := ints(args)
	if err != nil {
		return err
	}
	return s.RTC.SetTime(n[0], n[1], n[2])
}

func (s *Shell) setDate(args []string) error {
	if len(args) != 3 {
		return usage("setdate")
	}
	n, err := ints(args)
	if err != nil {
		return err
	}
	return s.RTC.SetDate(n[0], n[1], n[2])
}

func (s *Shell) setDow(args []string) error {
	if len(args) != 1 {
		return usage("setdow")
	}
	n, err := ints(args)
	if err != nil {
		return err
	}
	return s.RTC.SetDayOfWeek(n[0])
}

func (s *Shell) sync(args []string) error {
	clock := s.Clock
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	if err := s.RTC.Set(now); err != nil {
		return err
	}
	s.logger().Info("clock set from host", zap.Time("time", now))
	return nil
}

func (s *Shell) temp(args []string) error {
	whole, fraction, err := s.RTC.ReadTemperature()
	if err != nil {
		return err
	}
	s.printf("%.2f C", float64(whole)+fraction)
	return nil
}

func (s *Shell) control(args []string) error {
	c, err := s.RTC.ReadControl()
	if err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "0x%02X", uint8(c))
	for bit := ds3231.AL1E; bit <= ds3231.EOSC; bit++ {
		fmt.Fprintf(&b, " %s=%d", bit, btoi(c.Has(bit)))
	}
	fmt.Fprintf(&b, " freq=%dHz", c.Frequency().Hertz())
	s.printf("%s", b.String())
	return nil
}

func (s *Shell) setBit(args []string) error {
	if len(args) != 1 {
		return usage("setbit")
	}
	bit, ok := ds3231.ParseControlBit(strings.ToUpper(args[0]))
	if !ok {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("unknown control bit %q", args[0])
		}
		if n < 0 || n > int(ds3231.EOSC) {
			return ds3231.ErrInvalidControlBit
		}
		bit = ds3231.ControlBit(n)
	}
	return s.RTC.SetControlBit(bit)
}

func (s *Shell) sqwInt(args []string) error {
	if len(args) != 1 {
		return usage("sqwint")
	}
	switch args[0] {
	case "on":
		return s.RTC.SquareWaveInterrupt(true)
	case "off":
		return s.RTC.SquareWaveInterrupt(false)
	}
	return usage("sqwint")
}

var freqs = map[string]ds3231.Freq{
	"1hz":    ds3231.FreqLow,
	"1024hz": ds3231.FreqMediumLow,
	"4096hz": ds3231.FreqMediumHigh,
	"8192hz": ds3231.FreqHigh,
}

func (s *Shell) freq(args []string) error {
	if len(args) != 1 {
		return usage("freq")
	}
	f, ok := freqs[strings.ToLower(args[0])]
	if !ok {
		return usage("freq")
	}
	return s.RTC.SetSquareWaveFrequency(f)
}

func (s *Shell) status(args []string) error {
	st, err := s.RTC.ReadStatus()
	if err != nil {
		return err
	}
	s.printf("0x%02X A1F=%d A2F=%d BSY=%d OSF=%d", uint8(st),
		btoi(st.AlarmFlag(ds3231.Alarm1)), btoi(st.AlarmFlag(ds3231.Alarm2)),
		btoi(st.Busy()), btoi(st.OscillatorStopped()))
	return nil
}

func (s *Shell) alarm(args []string) error {
	if len(args) < 2 {
		return usage("alarm")
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 0 || n > 255 {
		return fmt.Errorf("%q is not an alarm number", args[1])
	}
	a := ds3231.Alarm(n)

	switch args[0] {
	case "set":
		rest := args[2:]
		dow := false
		if len(rest) == 4 && rest[3] == "dow" {
			dow = true
			rest = rest[:3]
		}
		if len(rest) != 3 {
			return usage("alarm")
		}
		v, err := ints(rest)
		if err != nil {
			return err
		}
		if err := s.RTC.SetAlarm(a, v[0], v[1], v[2], dow); err != nil {
			return err
		}
		s.printf("alarm %d set for %02d:%02d", a, v[0], v[1])
	case "get":
		h, m, err := s.RTC.ReadAlarm(a)
		if err != nil {
			return err
		}
		s.printf("alarm %d %02d:%02d", a, h, m)
	case "check":
		fired, err := s.RTC.AlarmTriggered(a)
		if err != nil {
			return err
		}
		if fired {
			s.printf("alarm %d fired", a)
		} else {
			s.printf("alarm %d idle", a)
		}
	default:
		return usage("alarm")
	}
	return nil
}

func (s *Shell) aging(args []string) error {
	switch len(args) {
	case 0:
		v, err := s.RTC.ReadAgingOffset()
		if err != nil {
			return err
		}
		s.printf("aging offset %d", v)
		return nil
	case 1:
		v, err := strconv.ParseInt(args[0], 0, 8)
		if err != nil {
			return fmt.Errorf("aging offset must be -128..127: %q", args[0])
		}
		return s.RTC.SetAgingOffset(int8(v))
	}
	return usage("aging")
}

func (s *Shell) help(args []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.printf("%-52s %s", commands[name].usage, commands[name].help)
	}
	return nil
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
