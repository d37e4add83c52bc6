package playback

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultInterval is how long auto mode shows each frame
const DefaultInterval = 2 * time.Second

// TextPlayer prints frames one after another. In manual mode it waits for a line of input before
// every frame after the first; in auto mode it waits for a fixed interval instead.
type TextPlayer struct {
	out      io.Writer
	in       *bufio.Reader
	auto     bool
	interval time.Duration
}

func NewTextPlayer(out io.Writer, in io.Reader, interval time.Duration) *TextPlayer {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &TextPlayer{
		out:      out,
		in:       bufio.NewReader(in),
		interval: interval,
	}
}

// SetAuto switches between auto and manual mode
func (p *TextPlayer) SetAuto(auto bool) {
	p.auto = auto
}

// Auto returns true if the player advances on a timer
func (p *TextPlayer) Auto() bool {
	return p.auto
}

// PromptAuto asks whether to play in auto mode. Only an answer of y selects auto mode.
func (p *TextPlayer) PromptAuto() error {
	fmt.Fprintln(p.out, "Do you want auto mode? y/n")

	answer, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return errors.Wrap(err, "could not read answer")
	}

	p.auto = strings.ToLower(strings.TrimSpace(answer)) == "y"
	return nil
}

// Play prints every frame. Manual playback ends early, without error, if input runs out.
func (p *TextPlayer) Play(ctx context.Context, frames []Frame) error {
	if p.auto {
		fmt.Fprintf(p.out, "Screen will update every %s.\n", p.interval)
	}

	for i, frame := range frames {
		if i > 0 {
			proceed, err := p.wait(ctx)
			if err != nil || !proceed {
				return err
			}
		}

		fmt.Fprint(p.out, RenderFrame(frame))
	}

	return nil
}

func (p *TextPlayer) wait(ctx context.Context) (bool, error) {
	if p.auto {
		timer := time.NewTimer(p.interval)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
			return true, nil
		}
	}

	fmt.Fprintln(p.out, "Please press enter to advance.")
	_, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "could not read input")
	}
	return ctx.Err() == nil, ctx.Err()
}
