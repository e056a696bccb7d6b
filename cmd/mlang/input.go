package main

import (
	"errors"
	"io"
	"os"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"mlang/interpreter-go/pkg/interpreter"
)

// promptReader serves read() from an interactive terminal with line editing
// and history.
type promptReader struct {
	state *liner.State
}

func (p *promptReader) ReadLine() (string, error) {
	line, err := p.state.Prompt("")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		return "", err
	}
	if line != "" {
		p.state.AppendHistory(line)
	}
	return line, nil
}

// newInputReader picks the read() source for stdin. The returned func
// releases the terminal and must always be called.
func newInputReader(stdin io.Reader) (interpreter.InputReader, func()) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		return &promptReader{state: state}, func() { _ = state.Close() }
	}
	return interpreter.NewLineReader(stdin), func() {}
}
