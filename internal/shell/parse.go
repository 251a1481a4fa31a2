package shell

import (
	"errors"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ErrEmptyLine is returned by Parse for a line with no words.
var ErrEmptyLine = errors.New("empty command line")

// Command is one parsed input line.
type Command struct {
	Args       []string
	Input      string // empty when stdin is not redirected
	Output     string // empty when stdout is not redirected
	Background bool
}

func (c Command) String() string {
	s := shellquote.Join(c.Args...)
	if c.Input != "" {
		s += " < " + shellquote.Join(c.Input)
	}
	if c.Output != "" {
		s += " > " + shellquote.Join(c.Output)
	}
	if c.Background {
		s += " &"
	}
	return s
}

// Parser turns raw lines into Commands.
type Parser struct {
	Marker string
	PID    string
	Mode   *Mode
}

// Parse splits line on whitespace. Every word, the program name included,
// has the PID marker expanded. "<" and ">" take the next word as a
// redirect target; "&" requests background execution unless
// foreground-only mode is on at the time of the call. A redirect operator
// with nothing after it is dropped.
func (p *Parser) Parse(line string) (Command, error) {
	var cmd Command

	words := strings.Fields(line)
	if len(words) == 0 {
		return cmd, ErrEmptyLine
	}

	cmd.Args = append(cmd.Args, p.expand(words[0]))
	for i := 1; i < len(words); i++ {
		switch words[i] {
		case "<", ">":
			if i+1 == len(words) {
				continue
			}
			target := p.expand(words[i+1])
			if words[i] == "<" {
				cmd.Input = target
			} else {
				cmd.Output = target
			}
			i++
		case "&":
			cmd.Background = !p.Mode.ForegroundOnly()
		default:
			cmd.Args = append(cmd.Args, p.expand(words[i]))
		}
	}

	return cmd, nil
}

func (p *Parser) expand(word string) string {
	return Expand(word, p.Marker, p.PID)
}
