package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cast"

	"github.com/mitchelldurbincs/tictactoe/internal/game/core"
)

// ErrInvalidChoice is returned for input that does not name an allowed answer
var ErrInvalidChoice = errors.New("not a valid choice")

// ParseChoice accepts exactly the text of one legal position, surrounding
// whitespace aside. "05" and "5.0" are rejected.
func ParseChoice(input string, legal []core.Position) (core.Position, error) {
	s := strings.TrimSpace(input)
	n, err := cast.ToIntE(s)
	if err != nil || cast.ToString(n) != s {
		return core.NoPosition, ErrInvalidChoice
	}
	pos := core.Position(n)
	for _, p := range legal {
		if p == pos {
			return pos, nil
		}
	}
	return core.NoPosition, ErrInvalidChoice
}

// ParseYesNo accepts y, yes, n or no in any case
func ParseYesNo(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, ErrInvalidChoice
	}
}

type lineResult struct {
	line string
	err  error
}

// lineReader reads whole lines and gives up when ctx is done. A read abandoned
// by cancellation finishes in the background and its line is dropped.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its terminator. io.EOF is returned only
// when no text remains.
func (lr *lineReader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ch := make(chan lineResult, 1)
	go func() {
		line, err := lr.r.ReadString('\n')
		ch <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		line := strings.TrimRight(res.line, "\r\n")
		if res.err != nil {
			if errors.Is(res.err, io.EOF) && line != "" {
				return line, nil
			}
			return "", res.err
		}
		return line, nil
	}
}
