package installer

import (
	"github.com/charmbracelet/bubbles/textinput"
)

// NewTelegramTokenStep collects the Telegram bot token when the Telegram channel was chosen.
func NewTelegramTokenStep() Step {
	s := newTextStep("Enter your Telegram Bot Token:", keyTelegramToken, "123456789:ABCDEF...", false,
		func(state *InstallState) bool { return !state.telegramEnabled() })
	s.input.EchoMode = textinput.EchoPassword
	s.input.EchoCharacter = '•'
	return s
}
