package command

import (
	"artbot/internal/core/domain"
	"artbot/internal/core/port"
	"artbot/internal/core/service"
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type Reset struct {
	sessions   *service.SessionStore
	textSender port.TextSender
	command    string
}

func NewReset(sessions *service.SessionStore, textSender port.TextSender, command string) *Reset {
	return &Reset{sessions: sessions, textSender: textSender, command: command}
}

func (r *Reset) GetCommand() string {
	return r.command
}

func (r *Reset) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	log.Info().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", r.GetCommand()).
		Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	session, err := r.sessions.Update(message.ChatID, func(session *domain.Session) error {
		session.Reset()
		return nil
	})
	if err != nil {
		return r.textSender.NotifyAndReturnError(ctx, err, message)
	}

	_, err = r.textSender.SendMessageReply(ctx, message, "Reset to "+describeSession(session))
	return err
}
