package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/affibot/internal/config"
	"github.com/sandevgo/affibot/internal/core"
	"github.com/sandevgo/affibot/internal/service/assistant"
	"github.com/sandevgo/affibot/internal/service/session"
	"github.com/sandevgo/affibot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

const greeting = "👋 Hi %s! I'm your Deriv affiliate program advisor. " +
	"Ask me about commissions, products or growing your referral network."

type Turner interface {
	Turn(ctx context.Context, sess *session.Session, query string) (assistant.TurnResult, error)
}

type Bot struct {
	bot       *tele.Bot
	cfg       *config.TelegramConfig
	sessions  *session.Manager
	assistant Turner
	router    core.CmdRouter
	sender    *sender
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	sessions *session.Manager,
	assistant Turner,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:       b,
		cfg:       cfg,
		sessions:  sessions,
		assistant: assistant,
		router:    router,
		sender:    newSender(b),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	username := usernameOf(c.Sender())

	if _, err := b.sessions.Resume(ctx, username); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str(log.FieldUsername, username).Msg("failed to open session")
		return c.Send(userMessage(err))
	}
	return c.Send(fmt.Sprintf(greeting, username))
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	username := usernameOf(c.Sender())
	ctx = log.WithUser(ctx, username)
	logger := log.FromCtx(ctx)

	sess, err := b.sessions.Resume(ctx, username)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open session")
		return c.Send(userMessage(err))
	}

	if out, ok := b.router.Execute(ctx, username, c.Text()); ok {
		sess.Touch()
		return b.sender.sendMarkdown(ctx, c.Chat(), out)
	}

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	res, err := b.assistant.Turn(ctx, sess, c.Text())
	if err != nil {
		logger.Error().Err(err).Msg("assistant turn failed")
		return c.Send(userMessage(err))
	}

	return b.sender.sendMarkdown(ctx, c.Chat(), res.Answer)
}

// usernameOf keys a Telegram user by handle, falling back to the numeric id
// for accounts without one.
func usernameOf(u *tele.User) string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.Username); name != "" {
		return name
	}
	return fmt.Sprintf("tg-%d", u.ID)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyQuery):
		return "Please send a question."
	case errors.Is(err, core.ErrGeneration):
		return "⚠️ I could not answer right now, please try again."
	case errors.Is(err, core.ErrConnection):
		return "⚠️ Conversation store is unavailable, please try again later."
	default:
		return "⚠️ Something went wrong, please try again."
	}
}
