package command

import (
	"artbot/internal/core/domain"
	"artbot/internal/core/port"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const usage = `Send a photo with /convert as caption, or reply to a photo with /convert, to turn it into art.
Pick a style with /style <name> and tune it with /set <name> <value>.

Commands: %s`

type Help struct {
	registry   port.CommandRegistry
	textSender port.TextSender
	command    string
}

func NewHelp(registry port.CommandRegistry, textSender port.TextSender, command string) *Help {
	return &Help{registry: registry, textSender: textSender, command: command}
}

func (h *Help) GetCommand() string {
	return h.command
}

func (h *Help) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	log.Info().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", h.GetCommand()).
		Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := h.textSender.SendMessageReply(ctx, message,
		fmt.Sprintf(usage, strings.Join(h.registry.ListCommands(), " ")))
	return err
}
