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

// Styles lists every preset with its parameters.
type Styles struct {
	textSender port.TextSender
	command    string
}

func NewStyles(textSender port.TextSender, command string) *Styles {
	return &Styles{textSender: textSender, command: command}
}

func (s *Styles) GetCommand() string {
	return s.command
}

func (s *Styles) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	log.Info().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", s.GetCommand()).
		Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := s.textSender.SendMessageReply(ctx, message, listStyles())
	return err
}

func listStyles() string {
	var sb strings.Builder
	for i, style := range domain.Styles {
		if i > 0 {
			sb.WriteString("\n")
		}

		fmt.Fprintf(&sb, "%s (%s)\n", style.Title(), style)

		specs, err := domain.SpecsFor(style)
		if err != nil {
			continue
		}

		for _, spec := range specs {
			fmt.Fprintf(&sb, "  %s: %s, %s to %s, default %s\n", spec.Name, spec.Label,
				spec.Format(spec.Min), spec.Format(spec.Max), spec.Format(spec.Default))
		}
	}

	return sb.String()
}
