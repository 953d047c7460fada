package command

import (
	"artbot/internal/core/domain"
	"artbot/internal/core/port"
	"artbot/internal/core/service"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Convert stylizes the image attached to or replied to by the message with the chat's current preset.
type Convert struct {
	converter   port.ImageConverter
	preparer    port.ImagePreparer
	downloader  port.Downloader
	imageSender port.ImageSender
	textSender  port.TextSender
	sessions    *service.SessionStore
	track       service.Tracker
	command     string
}

func NewConvert(converter port.ImageConverter,
	preparer port.ImagePreparer,
	downloader port.Downloader,
	imageSender port.ImageSender,
	textSender port.TextSender,
	sessions *service.SessionStore,
	track service.Tracker,
	command string) *Convert {
	return &Convert{converter: converter,
		preparer:    preparer,
		downloader:  downloader,
		imageSender: imageSender,
		textSender:  textSender,
		sessions:    sessions,
		track:       track,
		command:     command}
}

func (c *Convert) GetCommand() string {
	return c.command
}

func (c *Convert) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("imageURL", message.ImageURL).
		Str("command", c.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if message.ImageURL == "" {
		_ = c.textSender.NotifyAndReturnError(ctx,
			fmt.Errorf("%w: send a photo with %s as caption or reply to one", domain.ErrMissingImage, c.command),
			message)
		return nil
	}

	if arg := ParseCommandArgs(message.Text); arg != "" {
		style, err := domain.ParseStyle(arg)
		if err != nil {
			_ = c.textSender.NotifyAndReturnError(ctx, fmt.Errorf("%w, choose one of: %s", err, styleNames()),
				message)
			return nil
		}

		_, err = c.sessions.Update(message.ChatID, func(session *domain.Session) error {
			return session.Select(style)
		})
		if err != nil {
			return c.textSender.NotifyAndReturnError(ctx, err, message)
		}
	}

	session := c.sessions.Get(message.ChatID)
	l = l.With().Str("style", string(session.Style)).Str("parameters", domain.Describe(session.Parameters)).Logger()

	if !c.track.Begin(ctx, message) {
		l.Debug().Msg("conversion refused by tracker")
		return nil
	}

	converted := false
	defer func() {
		c.track.Done(message.ChatID, converted)
	}()

	actionCtx, stopAction := context.WithCancel(ctx)
	defer stopAction()
	go c.textSender.SendChatAction(actionCtx, message.ChatID, domain.SendingPhoto)

	data, err := c.downloader.Download(ctx, message.ImageURL)
	if err != nil {
		err = fmt.Errorf("error downloading image: %w", err)
		return c.textSender.NotifyAndReturnError(ctx, err, message)
	}

	upload, err := c.preparer.Prepare(ctx, data, message.ImageName)
	if err != nil {
		l.Debug().Err(err).Msg("image rejected")
		_ = c.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	request, err := domain.NewConversionRequest(*upload, session.Parameters)
	if err != nil {
		l.Debug().Err(err).Msg("invalid conversion request")
		_ = c.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	start := time.Now()
	img, err := c.converter.Convert(ctx, request)
	if err != nil {
		kind, _ := domain.KindOf(err)
		l.Warn().Err(err).Str("kind", kind.String()).Msg("conversion failed")
		return c.textSender.NotifyAndReturnError(ctx, err, message)
	}

	converted = true
	l.Info().Dur("took", time.Since(start)).Int("bytes", len(img.Data)).Msg("conversion succeeded")

	stopAction()

	err = c.imageSender.SendImageFileReply(ctx, message, img.Filename(), img.Data)
	if err != nil {
		err = fmt.Errorf("error sending converted image: %w", err)
		return c.textSender.NotifyAndReturnError(ctx, err, message)
	}

	return nil
}
