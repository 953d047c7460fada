package service

import (
	"artbot/internal/core/domain"
	"artbot/internal/core/port"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Tracker interface {
	// Begin reserves the chat's conversion slot. It notifies the chat and returns false if a conversion is already
	// running or the daily limit is reached.
	Begin(ctx context.Context, message *domain.Message) bool
	// Done releases the slot. Successful conversions count towards the daily limit.
	Done(chatID int64, converted bool)
	Count(chatID int64) int
}

type ConversionTracker struct {
	inFlight   map[int64]bool
	chats      map[int64]int
	dailyLimit int
	mutex      *sync.Mutex
	sender     port.TextSender
}

// NewConversionTracker allows one conversion per chat at a time. A dailyLimit of 0 means unlimited.
func NewConversionTracker(ctx context.Context, sender port.TextSender, dailyLimit int) *ConversionTracker {
	ct := &ConversionTracker{
		inFlight:   make(map[int64]bool),
		chats:      make(map[int64]int),
		dailyLimit: dailyLimit,
		mutex:      &sync.Mutex{},
		sender:     sender,
	}

	if dailyLimit > 0 {
		go ct.ResetDailyLimit(ctx)
	}

	return ct
}

const (
	busy      = "A conversion is already in progress, please wait for it to finish."
	overLimit = "You have reached your daily limit of %d conversions. Limit will reset in %s."
)

func (t *ConversionTracker) Begin(ctx context.Context, message *domain.Message) bool {
	t.mutex.Lock()
	var reply string
	switch {
	case t.inFlight[message.ChatID]:
		reply = busy
	case t.dailyLimit > 0 && t.chats[message.ChatID] >= t.dailyLimit:
		reply = fmt.Sprintf(overLimit, t.dailyLimit, time.Until(getNextResetTime()).Truncate(time.Second))
	default:
		t.inFlight[message.ChatID] = true
	}
	t.mutex.Unlock()

	if reply == "" {
		return true
	}

	_, err := t.sender.SendMessageReply(ctx, message, reply)
	if err != nil {
		log.Warn().Err(err).Msg("failed to send conversion refusal")
	}

	return false
}

func (t *ConversionTracker) Done(chatID int64, converted bool) {
	t.mutex.Lock()
	delete(t.inFlight, chatID)
	if converted {
		t.chats[chatID]++
	}
	t.mutex.Unlock()
}

func (t *ConversionTracker) Count(chatID int64) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.chats[chatID]
}

func (t *ConversionTracker) ResetDailyLimit(ctx context.Context) {
	reset := getNextResetTime()

	for {
		log.Debug().Time("reset", reset).Msg("running reset timer")
		select {
		case <-time.After(time.Until(reset)):
			log.Debug().Msg("resetting daily limit")
			t.mutex.Lock()
			t.chats = make(map[int64]int)
			t.mutex.Unlock()
			time.Sleep(time.Second)
			reset = getNextResetTime()
		case <-ctx.Done():
			log.Debug().Msg("stopping daily limit reset")
			return
		}
	}
}

func getNextResetTime() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
