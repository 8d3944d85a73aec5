// Package log is a leveled logger for the toon binaries. Each print carries a
// timestamp, a colored level tag and the source location of the call. Levels
// above the current one are filtered out.
package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	Off = iota
	Fatal
	Error
	Warn
	Info
	Debug
	Trace
)

// LevelNames are the names accepted by SetLevel, indexed by level.
var LevelNames = []string{
	"off",
	"fatal",
	"error",
	"warn",
	"info",
	"debug",
	"trace",
}

// LevelPrinter is the set of printers for one level.
type LevelPrinter struct {
	// Ln prints its arguments separated by spaces.
	Ln func(a ...any)
	// F prints like fmt.Printf.
	F func(format string, a ...any)
	// S prints a spew dump of its arguments.
	S func(a ...any)
	// C accepts a closure so the message is only built if it will be printed.
	C func(closure func() string)
	// Chk prints a non-nil error and reports whether there was one.
	Chk func(err error) bool
	// Err builds an error with fmt.Errorf, prints it and returns it.
	Err func(format string, a ...any) error
}

// LevelSpec is the id, tag and colorizer of a level.
type LevelSpec struct {
	ID        int
	Name      string
	Colorizer func(a ...any) string
}

// LevelSpecs holds the tag and colour of every level.
var LevelSpecs = []LevelSpec{
	{Off, "", noSprint},
	{Fatal, "FTL", color.New(color.BgRed, color.FgHiWhite).Sprint},
	{Error, "ERR", color.New(color.FgHiRed).Sprint},
	{Warn, "WRN", color.New(color.FgHiYellow).Sprint},
	{Info, "INF", color.New(color.FgHiGreen).Sprint},
	{Debug, "DBG", color.New(color.FgHiBlue).Sprint},
	{Trace, "TRC", color.New(color.FgHiMagenta).Sprint},
}

var (
	// Level is the most verbose level that is printed.
	Level atomic.Int32
	// NoTimeStamp drops the timestamp prefix, for tests and piped output.
	NoTimeStamp atomic.Bool

	// F, E, W, I, D and T print at fatal, error, warn, info, debug and trace.
	F, E, W, I, D, T LevelPrinter
)

var msgCol = color.New(color.FgBlue).Sprint

func init() {
	Level.Store(Info)
	SetOutput(os.Stderr)
}

func noSprint(...any) string { return "" }

// SetOutput sends every printer to w. Colour is used only when w is a
// terminal.
func SetOutput(w io.Writer) {
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		color.NoColor = false
		w = colorable.NewColorable(f)
	} else {
		color.NoColor = true
	}
	F = GetPrinter(Fatal, w)
	E = GetPrinter(Error, w)
	W = GetPrinter(Warn, w)
	I = GetPrinter(Info, w)
	D = GetPrinter(Debug, w)
	T = GetPrinter(Trace, w)
}

// GetLevel returns the level with the given name, or Info.
func GetLevel(name string) int {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range LevelNames {
		if name == LevelNames[i] {
			return i
		}
	}
	return Info
}

// SetLevel sets the level by name. Unknown names are ignored and reported
// as false.
func SetLevel(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range LevelNames {
		if name == LevelNames[i] {
			Level.Store(int32(i))
			T.F("log level %s", LevelSpecs[i].Colorizer(LevelNames[i]))
			return true
		}
	}
	return false
}

// JoinStrings joins its arguments with spaces.
func JoinStrings(a ...any) string {
	var sb strings.Builder
	for i := range a {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprint(a[i]))
	}
	return sb.String()
}

// GetPrinter returns the printers for level l writing to w.
func GetPrinter(l int32, w io.Writer) LevelPrinter {
	emit := func(msg string) {
		fmt.Fprintf(w,
			"%s%s %s %s\n",
			msgCol(timeStamp()),
			LevelSpecs[l].Colorizer(LevelSpecs[l].Name),
			msg,
			msgCol(GetLoc(3)),
		)
	}
	enabled := func() bool { return Level.Load() >= l }

	return LevelPrinter{
		Ln: func(a ...any) {
			if enabled() {
				emit(JoinStrings(a...))
			}
		},
		F: func(format string, a ...any) {
			if enabled() {
				emit(fmt.Sprintf(format, a...))
			}
		},
		S: func(a ...any) {
			if enabled() {
				emit(spew.Sdump(a...))
			}
		},
		C: func(closure func() string) {
			if enabled() {
				emit(closure())
			}
		},
		Chk: func(err error) bool {
			if err == nil {
				return false
			}
			if enabled() {
				emit(err.Error())
			}
			return true
		},
		Err: func(format string, a ...any) error {
			err := fmt.Errorf(format, a...)
			if enabled() {
				emit(err.Error())
			}
			return err
		},
	}
}

func timeStamp() string {
	if NoTimeStamp.Load() {
		return ""
	}
	return time.Now().Format("2006-01-02T15:04:05.000Z07:00 ")
}

// GetLoc returns the file:line of the caller skip frames up.
func GetLoc(skip int) string {
	_, file, line, _ := runtime.Caller(skip)
	return fmt.Sprintf("%s:%d", file, line)
}
