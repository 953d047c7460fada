package command

import (
	"artbot/internal/core/domain"
	"artbot/internal/core/port"
	"artbot/internal/core/service"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Style shows or switches the preset of a chat.
type Style struct {
	sessions   *service.SessionStore
	textSender port.TextSender
	command    string
}

func NewStyle(sessions *service.SessionStore, textSender port.TextSender, command string) *Style {
	return &Style{sessions: sessions, textSender: textSender, command: command}
}

func (s *Style) GetCommand() string {
	return s.command
}

func (s *Style) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", s.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	arg := ParseCommandArgs(message.Text)
	if arg == "" {
		_, err := s.textSender.SendMessageReply(ctx, message,
			"Current style: "+describeSession(s.sessions.Get(message.ChatID)))
		return err
	}

	style, err := domain.ParseStyle(arg)
	if err != nil {
		l.Debug().Err(err).Msg("unknown style requested")
		_ = s.textSender.NotifyAndReturnError(ctx, fmt.Errorf("%w, choose one of: %s", err, styleNames()), message)
		return nil
	}

	session, err := s.sessions.Update(message.ChatID, func(session *domain.Session) error {
		return session.Select(style)
	})
	if err != nil {
		return s.textSender.NotifyAndReturnError(ctx, err, message)
	}

	l.Debug().Str("style", string(style)).Msg("style selected")

	_, err = s.textSender.SendMessageReply(ctx, message, "Selected "+describeSession(session))
	return err
}

func describeSession(session domain.Session) string {
	return fmt.Sprintf("%s (%s): %s", session.Style.Title(), session.Style, domain.Describe(session.Parameters))
}

func styleNames() string {
	names := make([]string, len(domain.Styles))
	for i, style := range domain.Styles {
		names[i] = string(style)
	}

	return strings.Join(names, ", ")
}
