package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/songzhibin97/coinsage/internal/agent"
)

const separator = "-------------------"

// autonomousPrompt 自主模式下每个周期发送的固定指令
const autonomousPrompt = "Be creative and do something interesting with the " +
	"market. Analyze a category, check keyword trends or invest a small " +
	"amount, then summarize what you did and what you found."

// Loop drives the conversation between the user (or a timer) and the agent
// runtime. One session id per process; calls are fully awaited, nothing runs
// concurrently.
type Loop struct {
	runtime   agent.Runtime
	in        io.Reader
	out       io.Writer
	logger    *slog.Logger
	sessionID string
}

func NewLoop(runtime agent.Runtime, in io.Reader, out io.Writer, logger *slog.Logger) *Loop {
	return &Loop{
		runtime:   runtime,
		in:        in,
		out:       out,
		logger:    logger,
		sessionID: uuid.NewString(),
	}
}

// RunInteractive reads one line per iteration and stops on a literal "exit".
func (l *Loop) RunInteractive(ctx context.Context) error {
	fmt.Fprintln(l.out, "Ask about the market, or type 'exit' to quit.")

	scanner := bufio.NewScanner(l.in)
	for {
		fmt.Fprint(l.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" {
			return nil
		}

		if err := l.ask(ctx, line); err != nil {
			return err
		}
	}
}

// RunAutonomous sends a constant self-directed prompt every interval until
// the context ends. Any cycle error is fatal.
func (l *Loop) RunAutonomous(ctx context.Context, interval time.Duration) error {
	l.logger.Info("running autonomously", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := l.ask(ctx, autonomousPrompt); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ask delegates one message and prints chunks in arrival order, tagged by
// source, then a separator line.
func (l *Loop) ask(ctx context.Context, message string) error {
	chunks, err := l.runtime.Ask(ctx, message, l.sessionID)
	if err != nil {
		return err
	}

	for chunk := range chunks {
		if chunk.Err != nil {
			return chunk.Err
		}
		fmt.Fprintf(l.out, "[%s] %s\n", chunk.Source, chunk.Content)
	}

	fmt.Fprintln(l.out, separator)
	return nil
}
