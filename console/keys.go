package console

import "github.com/nsf/termbox-go"

// Action is something a key press asks for.
type Action int

const (
	None Action = iota
	Quit
	PlayTrack // Command.Track holds the track
	TogglePause
	Stop
	Next
	Prev
	ToggleLoop
	VolumeUp
	VolumeDown
	CDVolumeUp
	CDVolumeDown
)

// Command is a decoded key press.
type Command struct {
	Action Action
	Track  int
}

// KeyCommand maps a terminal event to a command.
func KeyCommand(ev termbox.Event) Command {
	if ev.Type != termbox.EventKey {
		return Command{}
	}
	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return Command{Action: Quit}
	case termbox.KeySpace:
		return Command{Action: TogglePause}
	case termbox.KeyArrowRight:
		return Command{Action: Next}
	case termbox.KeyArrowLeft:
		return Command{Action: Prev}
	case termbox.KeyArrowUp:
		return Command{Action: VolumeUp}
	case termbox.KeyArrowDown:
		return Command{Action: VolumeDown}
	}

	switch ch := ev.Ch; {
	case ch >= '1' && ch <= '9':
		return Command{Action: PlayTrack, Track: int(ch - '0')}
	case ch == '0':
		return Command{Action: PlayTrack, Track: 10}
	case ch == 'q':
		return Command{Action: Quit}
	case ch == 's':
		return Command{Action: Stop}
	case ch == 'n':
		return Command{Action: Next}
	case ch == 'p':
		return Command{Action: Prev}
	case ch == 'l':
		return Command{Action: ToggleLoop}
	case ch == '+' || ch == '=':
		return Command{Action: VolumeUp}
	case ch == '-':
		return Command{Action: VolumeDown}
	case ch == ']':
		return Command{Action: CDVolumeUp}
	case ch == '[':
		return Command{Action: CDVolumeDown}
	}
	return Command{}
}

// help is shown under the status lines.
var help = []string{
	"1-9,0  play track      space  pause/resume   s  stop",
	"n/p    next/previous   l      loop on/off",
	"+/-    main volume     [/]    cd volume      q  quit",
}
