package main

import (
	"artbot/internal/adapters/converter"
	"artbot/internal/adapters/file"
	"artbot/internal/adapters/handler"
	"artbot/internal/adapters/preparer"
	"artbot/internal/adapters/sender"
	"artbot/internal/config"
	"artbot/internal/core/domain/command"
	"artbot/internal/core/service"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	pingTimeout = 90 * time.Second
	// Telegram's getFile limit for bots.
	maxDownloadBytes = 20 << 20
)

func main() {
	log.Info().Msg("starting artbot...")

	log.Info().Msg("reading config file...")
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}

	var logLevel zerolog.Level

	switch cfg.Bot.LogLevel {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if cfg.Bot.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := []bot.Option{
		bot.WithDefaultHandler(noOpHandler),
	}

	b, err := bot.New(cfg.Telegram.BotToken, opts...)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing telegram bot")
	}

	s := sender.NewTelegram(b)

	client := converter.NewClient(cfg.Converter.URL)
	go checkConverter(ctx, client)

	imagePreparer := preparer.NewImaging(cfg.Converter.MaxUploadBytes, cfg.Converter.MaxDimension)
	downloader := file.NewDownloader(maxDownloadBytes)

	sessions := service.NewSessionStore(cfg.Session.Timeout)
	tracker := service.NewConversionTracker(ctx, s, cfg.Telegram.DailyConversionLimit)

	commandRegistry := &command.Registry{}

	commandRegistry.Register(command.NewConvert(client, imagePreparer, downloader, s, s, sessions, tracker,
		"/convert"))
	commandRegistry.Register(command.NewStyle(sessions, s, "/style"))
	commandRegistry.Register(command.NewSet(sessions, s, "/set"))
	commandRegistry.Register(command.NewReset(sessions, s, "/reset"))
	commandRegistry.Register(command.NewStyles(s, "/styles"))
	commandRegistry.Register(command.NewHelp(commandRegistry, s, "/help"))
	commandRegistry.Register(command.NewHelp(commandRegistry, s, "/start"))
	commandRegistry.Register(command.NewDebug(s, client, sessions, "/debug"))

	commandHandler := handler.NewCommand(commandRegistry, cfg.Handler.Timeout)

	b.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, commandHandler.Handle)
	b.RegisterHandler(bot.HandlerTypePhotoCaption, "/", bot.MatchTypePrefix, commandHandler.Handle)

	log.Info().Msg("bot listening")
	b.Start(ctx)
}

// checkConverter wakes the hosted converter, which cold starts after idling.
func checkConverter(ctx context.Context, client *converter.Client) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	greeting, err := client.Ping(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("converter not reachable yet")
		return
	}

	log.Info().Str("greeting", greeting).Msg("converter reachable")
}

func noOpHandler(_ context.Context, _ *bot.Bot, _ *models.Update) {}
