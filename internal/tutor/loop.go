package tutor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// exitToken ends the session when entered on its own, any letter case.
const exitToken = "q"

// RunLoop drives the interactive session over the injected reader until
// the user quits, input ends, or ctx is cancelled by an interrupt. Every
// error inside a turn is contained and reported; only the three exit
// triggers leave the loop, so an isolated failure never ends a session.
func (s *Session) RunLoop(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Enter your first message. e.g. \"Give me one fill-in-the-blank question\"")
	fmt.Fprintln(s.out)

	lines := readLines(ctx, in)
	for {
		fmt.Fprint(s.out, "you > ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\nInterrupt received, shutting down ...")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out, "\nEOF received, exiting.")
				return nil
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if strings.EqualFold(text, exitToken) {
				fmt.Fprintln(s.out, "Bye.")
				return nil
			}
			s.turn(ctx, text)
		}
	}
}

// turn runs one append → run → display cycle and maps any failure onto
// the error taxonomy. Nothing here terminates the loop.
func (s *Session) turn(ctx context.Context, text string) {
	err := s.processTurn(ctx, text)
	if err == nil {
		return
	}

	var runErr *RunFailedError
	switch {
	case errors.As(err, &runErr):
		s.log.Warn().Str("code", runErr.Code).Msg("run reported failure")
		fmt.Fprintf(s.out, "Run failed: %s\nPlease try again.\n", runErr.Detail)
	case IsServiceError(err):
		s.log.Warn().Err(err).Msg("service error during turn")
		fmt.Fprintf(s.out, "Service error: %v\nPlease try again.\n", err)
	default:
		s.log.Error().Err(err).Msg("unexpected error during turn")
		fmt.Fprintf(s.out, "Unexpected error: %v\nContinuing.\n", err)
	}
}

func (s *Session) processTurn(ctx context.Context, text string) error {
	if err := s.AppendUserMessage(ctx, text); err != nil {
		return err
	}
	s.record("user", text)

	if err := s.RunAgent(ctx); err != nil {
		return err
	}

	reply, err := s.ShowLatest(ctx)
	if err != nil {
		return err
	}
	s.record("assistant", reply)
	return nil
}

// readLines feeds scanned lines into a channel so the loop can observe
// ctx cancellation while the terminal read is still blocking. The
// channel closes on EOF.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}
