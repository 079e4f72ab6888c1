package main

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// The shop rotates at 03:00 Moscow time. One recurring job, no jitter. If the
// process is down at trigger time that occurrence is skipped; there is no
// catch-up on restart.
const broadcastCronSpec = "0 3 * * *"

const broadcastTimeout = 30 * time.Second

// moscowLocation resolves the broadcast timezone. Hosts without tzdata get a
// fixed UTC+3 zone, which is equivalent for this schedule.
func moscowLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		return time.FixedZone("MSK", 3*60*60)
	}
	return loc
}

// Scheduler pushes the full shop view to one fixed chat every day at the
// rotation time.
type Scheduler struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	shop      *ShopClient
	conv      Converter
	transport Transport
	chatID    int64
}

// NewScheduler creates the scheduler with its single broadcast job registered
// but not yet running.
func NewScheduler(shop *ShopClient, conv Converter, transport Transport, chatID int64) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(moscowLocation())),
		shop:      shop,
		conv:      conv,
		transport: transport,
		chatID:    chatID,
	}

	id, err := s.cron.AddFunc(broadcastCronSpec, s.broadcast)
	if err != nil {
		return nil, fmt.Errorf("failed to register broadcast job: %w", err)
	}
	s.entryID = id

	return s, nil
}

// Start launches the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info().
		Str("schedule", broadcastCronSpec).
		Int64("chat_id", s.chatID).
		Time("next_run", s.cron.Entry(s.entryID).Next).
		Msg("Broadcast scheduler started")
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// NextIn reports the time until the next broadcast fires.
func (s *Scheduler) NextIn() time.Duration {
	next := s.cron.Entry(s.entryID).Next
	if next.IsZero() {
		return untilNextBroadcast(time.Now())
	}
	return time.Until(next)
}

// broadcast runs the same fetch -> aggregate -> render pipeline as the full
// view and pushes the result unprompted. It must never kill the cron loop:
// any panic is logged and that occurrence is skipped.
func (s *Scheduler) broadcast() {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Broadcast failed, skipping this occurrence")
		}
	}()

	logger.Info().Msg("🌙 Running scheduled shop broadcast")

	ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
	defer cancel()

	snap := s.shop.Fetch(ctx)
	text := fmt.Sprintf(
		"🌙 **НОЧНОЕ ОБНОВЛЕНИЕ МАГАЗИНА**\n\n🕒 %s МСК\n🛒 Магазин Fortnite обновился!\n\n%s",
		time.Now().In(moscowLocation()).Format("02.01.2006 15:04"),
		Render(ViewFull, snap, "", s.conv))

	if _, err := s.transport.Send(s.chatID, text, menuRows()); err != nil {
		logger.Error().Err(err).Int64("chat_id", s.chatID).Msg("Failed to send broadcast")
		return
	}

	logger.Info().Int64("chat_id", s.chatID).Msg("Broadcast sent")
}

// untilNextBroadcast computes the wait until the next 03:00 MSK, used when no
// scheduler is running.
func untilNextBroadcast(now time.Time) time.Duration {
	loc := moscowLocation()
	n := now.In(loc)
	next := time.Date(n.Year(), n.Month(), n.Day(), 3, 0, 0, 0, loc)
	if !next.After(n) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(n)
}
