package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dskvich/gpt-image-cli/pkg/domain"
	"github.com/dskvich/gpt-image-cli/pkg/logger"
)

type ImageService interface {
	Generate(ctx context.Context, prompt string) (*domain.Generation, error)
	Model() domain.ImageModel
}

type session struct {
	svc   ImageService
	in    io.Reader
	out   io.Writer
	state State

	requestID int64
}

func NewSession(svc ImageService, in io.Reader, out io.Writer) *session {
	return &session{
		svc:   svc,
		in:    in,
		out:   out,
		state: AwaitingInput,
	}
}

func (s *session) Name() string { return "console" }

func (s *session) State() State { return s.state }

// Run prompts for lines until the user types the exit keyword, input ends or
// ctx is cancelled, all of which return nil. The first failed generation ends
// the session with its error.
func (s *session) Run(ctx context.Context) error {
	defer func() { s.state = Terminated }()

	lines := readLines(s.in)

	for {
		fmt.Fprintf(s.out, "\nGenerate an Image with gpt-image-1 (using model: %s): ", s.svc.Model())

		var (
			text string
			ok   bool
		)
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case text, ok = <-lines.ch:
		}
		if !ok {
			fmt.Fprintln(s.out)
			if err := lines.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			return nil
		}

		prompt := strings.TrimSpace(text)
		if strings.EqualFold(prompt, domain.ExitKeyword) {
			return nil
		}
		if prompt == "" {
			continue
		}

		if err := s.submit(ctx, prompt); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(s.out, "\n\nError communicating with OpenAI: \"%s\"\n", err)
			return err
		}
	}
}

func (s *session) submit(ctx context.Context, prompt string) error {
	s.requestID++
	ctx = logger.ContextWithRequestID(ctx, s.requestID)

	s.state = InFlight
	gen, err := s.svc.Generate(ctx, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "Image generation failed", logger.Err(err))
		return err
	}
	s.state = AwaitingInput

	fmt.Fprintf(s.out, "Time elapsed: %s\n", domain.FormatElapsed(gen.Elapsed))
	fmt.Fprintf(s.out, "Your question took a total of: %d tokens\n", gen.Usage.TotalTokens)
	fmt.Fprintf(s.out, "Your question prompt used: %d\n", gen.Usage.InputTokens)
	fmt.Fprintf(s.out, "Your image output used: %d\n", gen.Usage.OutputTokens)
	if gen.Attempts > 1 {
		fmt.Fprintf(s.out, "Rate limited, succeeded after %d attempts\n", gen.Attempts)
	}
	fmt.Fprintf(s.out, "Image saved to %s\n", gen.Path)

	return nil
}

type lineReader struct {
	ch  chan string
	err error
}

// readLines feeds lines from r into a channel so that waiting for input can
// be abandoned when the context is cancelled. The channel is closed at EOF.
func readLines(r io.Reader) *lineReader {
	lr := &lineReader{ch: make(chan string)}

	go func() {
		defer close(lr.ch)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lr.ch <- scanner.Text()
		}
		lr.err = scanner.Err()
	}()

	return lr
}

// Err is safe to call once the channel is closed.
func (lr *lineReader) Err() error { return lr.err }
