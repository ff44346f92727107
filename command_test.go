package lightbridge

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr bool
	}{
		{"initialize", "INITIALIZE\n", Command{Kind: CmdInitialize}, false},
		{"shutdown", "SHUTDOWN\n", Command{Kind: CmdShutdown}, false},
		{"initialize extra tokens ignored", "INITIALIZE now please\n", Command{Kind: CmdInitialize}, false},
		{"shutdown extra tokens ignored", "SHUTDOWN 1\n", Command{Kind: CmdShutdown}, false},
		{"intensity min", "TL_INTENSITY 0\n", Command{Kind: CmdSetIntensity, Intensity: 0}, false},
		{"intensity max", "TL_INTENSITY 255\n", Command{Kind: CmdSetIntensity, Intensity: 255}, false},
		{"intensity mid", "TL_INTENSITY 100\n", Command{Kind: CmdSetIntensity, Intensity: 100}, false},
		{"intensity surrounded by spaces", "  TL_INTENSITY 42  \n", Command{Kind: CmdSetIntensity, Intensity: 42}, false},
		{"intensity above range", "TL_INTENSITY 256\n", Command{}, true},
		{"intensity below range", "TL_INTENSITY -1\n", Command{}, true},
		{"intensity not numeric", "TL_INTENSITY bright\n", Command{}, true},
		{"intensity missing argument", "TL_INTENSITY\n", Command{}, true},
		{"intensity too many arguments", "TL_INTENSITY 10 20\n", Command{}, true},
		{"shutter open", "SHUTTER_OPEN 1\n", Command{Kind: CmdSetShutter, Open: true}, false},
		{"shutter closed", "SHUTTER_OPEN 0\n", Command{Kind: CmdSetShutter, Open: false}, false},
		{"shutter bad flag", "SHUTTER_OPEN 2\n", Command{}, true},
		{"shutter word flag", "SHUTTER_OPEN true\n", Command{}, true},
		{"shutter missing argument", "SHUTTER_OPEN\n", Command{}, true},
		{"shutter too many arguments", "SHUTTER_OPEN 1 1\n", Command{}, true},
		{"unknown prefix", "BLINK 3\n", Command{}, true},
		{"empty line", "\n", Command{}, true},
		{"missing newline", "INITIALIZE", Command{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCommand(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrParse) {
					t.Errorf("ParseCommand(%q) error = %v, want ErrParse", tt.line, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseCommandFullIntensityRange(t *testing.T) {
	for level := MinIntensity; level <= MaxIntensity; level++ {
		line := fmt.Sprintf("TL_INTENSITY %d\n", level)
		cmd, err := ParseCommand(line)
		if err != nil {
			t.Fatalf("ParseCommand(%q) unexpected error: %v", line, err)
		}
		if cmd.Kind != CmdSetIntensity || cmd.Intensity != level {
			t.Fatalf("ParseCommand(%q) = %+v", line, cmd)
		}
	}
}
