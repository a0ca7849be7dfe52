package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/affibot/internal/config"
	"github.com/sandevgo/affibot/internal/core"
	"github.com/sandevgo/affibot/internal/service/assistant"
	"github.com/sandevgo/affibot/internal/service/session"
	"github.com/sandevgo/affibot/internal/service/ui"
	"github.com/sandevgo/affibot/pkg/log"
)

const (
	usernamePrompt = "Please enter your username to start chatting"
	chatPrompt     = ">>> "
)

type Turner interface {
	Turn(ctx context.Context, sess *session.Session, query string) (assistant.TurnResult, error)
}

// chat holds the terminal conversation state independent of readline so the
// line handling can run against any writer.
type chat struct {
	out       io.Writer
	sessions  *session.Manager
	assistant Turner
	router    core.CmdRouter
	sess      *session.Session
}

type ReadLine struct {
	cfg  *config.AppConfig
	rl   *readline.Instance
	chat *chat
}

func NewReadLine(
	cfg *config.AppConfig,
	sessions *session.Manager,
	assistant Turner,
	router core.CmdRouter,
) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "username: ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg: cfg,
		rl:  rl,
		chat: &chat{
			out:       rl.Stdout(),
			sessions:  sessions,
			assistant: assistant,
			router:    router,
		},
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("ReadLine chat started. Type 'exit' to quit.")

	fmt.Fprintln(r.rl.Stdout(), ui.TitleStyle.Render("Deriv Affiliate Assistant 💹"))
	fmt.Fprintln(r.rl.Stdout(), usernamePrompt)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if r.chat.handleLine(ctx, line) {
			return nil
		}
		if r.chat.sess != nil {
			r.rl.SetPrompt(chatPrompt)
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if sess := r.chat.sess; sess != nil {
		_ = r.chat.sessions.End(sess.ID)
	}
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// handleLine processes one input line and reports whether the chat should end.
func (c *chat) handleLine(ctx context.Context, raw string) bool {
	line := strings.TrimSpace(raw)
	if line == "exit" {
		return true
	}
	if line == "" {
		return false
	}

	// Usernames are taken verbatim, matching the HTTP API.
	if c.sess == nil {
		c.login(ctx, raw)
		return false
	}

	if out, ok := c.router.Execute(ctx, c.sess.Username, line); ok {
		c.sess.Touch()
		fmt.Fprintln(c.out, out)
		return false
	}

	fmt.Fprintln(c.out, ui.DescStyle.Render("Typing..."))

	res, err := c.assistant.Turn(ctx, c.sess, line)
	if err != nil {
		c.reportError(ctx, err)
		return false
	}

	fmt.Fprintln(c.out, ui.AssistantStyle.Render(res.Answer))
	if !res.Persisted {
		fmt.Fprintln(c.out, ui.WarnStyle.Render("(conversation memory was not updated)"))
	}
	return false
}

func (c *chat) login(ctx context.Context, username string) {
	sess, err := c.sessions.Open(ctx, username)
	if err != nil {
		c.reportError(ctx, err)
		fmt.Fprintln(c.out, usernamePrompt)
		return
	}
	c.sess = sess
	fmt.Fprintf(c.out, "Welcome, %s! Ask me anything about the Deriv affiliate program.\n", sess.Username)
}

func (c *chat) reportError(ctx context.Context, err error) {
	log.FromCtx(ctx).Error().Err(err).Msg("chat turn failed")

	msg := "Something went wrong, please try again."
	switch {
	case errors.Is(err, core.ErrInvalidUsername):
		msg = "Username must not be empty."
	case errors.Is(err, core.ErrGeneration):
		msg = "The assistant could not answer right now, please try again."
	case errors.Is(err, core.ErrConnection):
		msg = "Conversation store is unavailable, please try again later."
	}
	fmt.Fprintln(c.out, ui.ErrorStyle.Render(msg))
}
