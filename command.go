package lightbridge

import (
	"strconv"
	"strings"
)

// Intensity bounds accepted by TL_INTENSITY.
const (
	MinIntensity = 0
	MaxIntensity = 255
)

// CommandKind identifies a parsed client command.
type CommandKind int

const (
	CmdInitialize CommandKind = iota
	CmdShutdown
	CmdSetIntensity
	CmdSetShutter
)

func (k CommandKind) String() string {
	switch k {
	case CmdInitialize:
		return "INITIALIZE"
	case CmdShutdown:
		return "SHUTDOWN"
	case CmdSetIntensity:
		return "TL_INTENSITY"
	case CmdSetShutter:
		return "SHUTTER_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Command is a parsed client request. Immutable once parsed; produced by
// ParseCommand and consumed exactly once by the executor.
type Command struct {
	Kind      CommandKind
	Intensity int  // CmdSetIntensity only
	Open      bool // CmdSetShutter only
}

// ParseCommand turns one raw request line into a Command.
//
// The line must be newline-terminated. All failures collapse to ErrParse;
// no structured detail is reported back to the client. INITIALIZE and
// SHUTDOWN ignore extra tokens (prefix-only dispatch), the argument-taking
// commands require exactly one argument.
func ParseCommand(line string) (Command, error) {
	if !strings.HasSuffix(line, "\n") {
		return Command{}, ErrParse
	}

	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return Command{}, ErrParse
	}

	switch fields[0] {
	case "INITIALIZE":
		return Command{Kind: CmdInitialize}, nil

	case "SHUTDOWN":
		return Command{Kind: CmdShutdown}, nil

	case "TL_INTENSITY":
		if len(fields) != 2 {
			return Command{}, ErrParse
		}
		level, err := strconv.Atoi(fields[1])
		if err != nil || level < MinIntensity || level > MaxIntensity {
			return Command{}, ErrParse
		}
		return Command{Kind: CmdSetIntensity, Intensity: level}, nil

	case "SHUTTER_OPEN":
		if len(fields) != 2 {
			return Command{}, ErrParse
		}
		switch fields[1] {
		case "0":
			return Command{Kind: CmdSetShutter, Open: false}, nil
		case "1":
			return Command{Kind: CmdSetShutter, Open: true}, nil
		default:
			return Command{}, ErrParse
		}

	default:
		return Command{}, ErrParse
	}
}
