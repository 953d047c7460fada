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

// Set changes one parameter of the chat's current preset.
type Set struct {
	sessions   *service.SessionStore
	textSender port.TextSender
	command    string
}

func NewSet(sessions *service.SessionStore, textSender port.TextSender, command string) *Set {
	return &Set{sessions: sessions, textSender: textSender, command: command}
}

func (s *Set) GetCommand() string {
	return s.command
}

func (s *Set) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", s.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := strings.Fields(ParseCommandArgs(message.Text))
	if len(args) != 2 {
		current := s.sessions.Get(message.ChatID)
		_ = s.textSender.NotifyAndReturnError(ctx,
			fmt.Errorf("usage: %s <name> <value>, parameters of %s: %s", s.command, current.Style,
				domain.Describe(current.Parameters)), message)
		return nil
	}

	session, err := s.sessions.Update(message.ChatID, func(session *domain.Session) error {
		return session.Set(args[0], args[1])
	})
	if err != nil {
		l.Debug().Err(err).Str("name", args[0]).Str("value", args[1]).Msg("rejected parameter")
		_ = s.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	_, err = s.textSender.SendMessageReply(ctx, message, describeSession(session))
	return err
}
