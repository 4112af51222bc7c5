package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ncardoz/cesta/internal/conversation"
	"github.com/ncardoz/cesta/pkg/domain"
)

const interruptFarewell = "\n¡Hasta luego! Sesión interrumpida."

// ChatSession drives the line-oriented conversation loop.
type ChatSession struct {
	Controller *conversation.Controller
	In         io.Reader
	Out        io.Writer

	// Render post-processes agent replies for the terminal. Optional.
	Render func(string) string
}

// Run reads one line per cycle, prints the agent's reply, and continues
// until the session ends, input is exhausted, or the context is cancelled.
// An interrupt produces a final farewell, not an error.
func (s *ChatSession) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.In)

	// The agent opens the conversation.
	if err := s.turn(ctx, ""); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(s.Out, interruptFarewell)
			return nil
		}
		return err
	}

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(s.Out, interruptFarewell)
			return nil
		}

		fmt.Fprint(s.Out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			// EOF: the user hung up without a farewell.
			fmt.Fprintln(s.Out)
			return nil
		}

		err := s.turn(ctx, scanner.Text())
		switch {
		case errors.Is(err, domain.ErrSessionEnded):
			return nil
		case errors.Is(err, context.Canceled):
			fmt.Fprintln(s.Out, interruptFarewell)
			return nil
		case err != nil:
			// The turn aborted but the session survives; tell the user and
			// keep reading.
			fmt.Fprintf(s.Out, "Lo siento, he encontrado un problema técnico. Intenta de nuevo.\n")
		}

		if s.Controller.Ended() {
			return nil
		}
	}
}

func (s *ChatSession) turn(ctx context.Context, input string) error {
	reply, err := s.Controller.HandleInput(ctx, input)
	if err != nil {
		return err
	}
	if s.Render != nil {
		reply = s.Render(reply)
	}
	fmt.Fprintln(s.Out, reply)
	return nil
}
