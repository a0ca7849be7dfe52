package telegram

import (
	"context"
	"strings"

	"github.com/sandevgo/affibot/pkg/conv"
	"github.com/sandevgo/affibot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

// markdownChunk leaves headroom for the tags added by the HTML conversion.
const markdownChunk = 3500

type poster interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type sender struct {
	bot poster
}

func newSender(bot poster) *sender {
	return &sender{bot: bot}
}

// sendMarkdown converts Markdown to Telegram HTML and sends it in chunks if needed.
func (s *sender) sendMarkdown(ctx context.Context, to tele.Recipient, md string) error {
	logger := log.FromCtx(ctx)

	var chunks []string
	for _, part := range conv.SplitMessage(strings.TrimSpace(md), markdownChunk) {
		html := strings.TrimSpace(conv.MarkdownToTelegramHTML([]byte(part)))
		chunks = append(chunks, conv.SplitMessage(html, conv.TelegramMessageLimit)...)
	}

	for i, chunk := range chunks {
		if _, err := s.bot.Send(to, chunk, tele.ModeHTML); err != nil {
			logger.Error().Err(err).Int("chunk", i).Int("len", len(chunk)).Msg("failed to send telegram chunk")
			return err
		}
	}
	return nil
}
