package handler

import (
	"artbot/internal/core/domain"
	"artbot/internal/core/domain/command"
	"artbot/internal/core/port"
	"context"
	"path"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// FileResolver turns a Telegram file ID into a download link. *bot.Bot implements it.
type FileResolver interface {
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

type Command struct {
	commandRegistry port.CommandRegistry
	timeout         time.Duration
}

func NewCommand(commandRegistry port.CommandRegistry, timeout time.Duration) *Command {
	return &Command{commandRegistry: commandRegistry, timeout: timeout}
}

func (c *Command) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		log.Debug().Msg("update without message")
		return
	}

	msg := update.Message

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	log.Debug().Str("message", text).Msg("received command")

	cmd := command.ParseCommand(text)
	commandHandler, err := c.commandRegistry.Get(cmd)
	if err != nil {
		log.Debug().Str("command", cmd).Err(err).Msg("no handler for command")
		return
	}

	var resolver FileResolver
	if b != nil {
		resolver = b
	}

	var replyToMessageID *int
	if msg.ReplyToMessage != nil {
		id := msg.ReplyToMessage.ID
		replyToMessageID = &id
	}

	go func() {
		imageURL, imageName := getOptionalImage(ctx, resolver, msg)

		err := commandHandler.Respond(context.Background(), c.timeout, &domain.Message{
			ID:               msg.ID,
			ChatID:           msg.Chat.ID,
			Text:             text,
			Username:         getUserNameOrFirstName(msg.From),
			ReplyToMessageID: replyToMessageID,
			ImageURL:         imageURL,
			ImageName:        imageName,
		})
		if err != nil {
			log.Err(err).Str("command", cmd).Msg("failed to respond to command")
		}
	}()
}

// getOptionalImage looks for an image on the message itself first, then on the message it replies to.
func getOptionalImage(ctx context.Context, resolver FileResolver, msg *models.Message) (string, string) {
	fileID, name := findImage(msg)
	if fileID == "" && msg.ReplyToMessage != nil {
		fileID, name = findImage(msg.ReplyToMessage)
	}

	if fileID == "" || resolver == nil {
		return "", ""
	}

	f, err := resolver.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		log.Error().Err(err).Msg("error getting file from telegram api")
		return "", ""
	}

	if name == "" {
		name = path.Base(f.FilePath)
	}

	return resolver.FileDownloadLink(f), name
}

func findImage(msg *models.Message) (string, string) {
	if len(msg.Photo) > 0 {
		return findLargestImage(msg.Photo), ""
	}

	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, msg.Document.FileName
	}

	return "", ""
}

// findLargestImage returns the highest resolution variant, which Telegram lists last on ties.
func findLargestImage(photos []models.PhotoSize) string {
	best := photos[0]
	for _, photo := range photos[1:] {
		if photo.Width*photo.Height >= best.Width*best.Height {
			best = photo
		}
	}

	return best.FileID
}

func getUserNameOrFirstName(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
