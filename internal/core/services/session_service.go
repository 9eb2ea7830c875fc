package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vncsmyrnk/lunchorder/internal/core/domain"
	"github.com/vncsmyrnk/lunchorder/internal/core/ports"
)

type sessionService struct {
	rt        Runtime
	sessions  ports.SessionRepository
	votes     ports.VoteRepository
	announcer ports.Announcer
}

func NewSessionService(rt Runtime, sessions ports.SessionRepository, votes ports.VoteRepository, announcer ports.Announcer) ports.SessionService {
	return &sessionService{
		rt:        rt.withDefaults(),
		sessions:  sessions,
		votes:     votes,
		announcer: announcer,
	}
}

// acceptVote decides whether date still takes votes at now. The deadline
// is a read-time policy; only an explicit close persists closed.
func acceptVote(ctx context.Context, rt Runtime, sessions ports.SessionRepository, date string, now time.Time) error {
	if rt.Calendar.IsPastDeadline(now) {
		return domain.ErrDeadlinePassed
	}

	session, err := sessions.GetSession(ctx, date)
	if err != nil {
		return storageError(err)
	}
	if session != nil && session.Closed {
		return domain.ErrSessionClosed
	}
	return nil
}

func (s *sessionService) StartAnnouncement(ctx context.Context) (*domain.Session, error) {
	now := s.rt.now()
	date := s.rt.Calendar.DateKey(now)

	if !s.rt.Calendar.IsWeekday(now) {
		return nil, domain.ErrNotAWeekday
	}

	session, err := s.getSession(ctx, date)
	if err != nil {
		return nil, err
	}
	if session.MessageSent {
		return nil, domain.ErrAlreadySent
	}

	announcement := s.announcement(ctx, domain.AnnouncementOpening, date, now)
	ref, err := s.announcer.Post(ctx, announcement)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnnouncementFailed, err)
	}

	storeCtx, cancel := s.rt.storeContext(ctx)
	defer cancel()

	first, err := s.sessions.MarkAnnounced(storeCtx, date, ref)
	if err != nil {
		s.rt.Logger.Error("announcement sent but not recorded", "date", date, "message_ref", ref, "error", err)
		return nil, storageError(err)
	}
	if !first {
		s.rt.Logger.Warn("announcement raced with another sender", "date", date, "message_ref", ref)
		return nil, domain.ErrAlreadySent
	}

	s.rt.Logger.Info("order announcement sent", "date", date, "message_ref", ref)
	return s.getSession(ctx, date)
}

// RefreshAnnouncement rewrites the day's announcement with current
// totals. Without a recorded message there is nothing to refresh. Only an
// invalid date is reported; store and announcer failures are logged.
func (s *sessionService) RefreshAnnouncement(ctx context.Context, date string) error {
	date, err := s.rt.resolveDate(date)
	if err != nil {
		return err
	}

	session, err := s.getSession(ctx, date)
	if err != nil {
		s.rt.Logger.Warn("announcement not refreshed", "date", date, "error", err)
		return nil
	}
	if session.MessageRef == "" {
		return nil
	}

	kind := domain.AnnouncementOpening
	if session.Closed {
		kind = domain.AnnouncementFinal
	}

	announcement := s.announcement(ctx, kind, date, s.rt.now())
	if err := s.announcer.Update(ctx, session.MessageRef, announcement); err != nil {
		s.rt.Logger.Warn("announcement not refreshed", "date", date, "message_ref", session.MessageRef, "error", err)
	}
	return nil
}

func (s *sessionService) Close(ctx context.Context, date string) error {
	date, err := s.rt.resolveDate(date)
	if err != nil {
		return err
	}

	storeCtx, cancel := s.rt.storeContext(ctx)
	defer cancel()

	if err := s.sessions.CloseSession(storeCtx, date); err != nil {
		return storageError(err)
	}

	s.rt.Logger.Info("orders closed", "date", date)
	return nil
}

// CloseAndAnnounceFinal closes today and publishes the final totals,
// rewriting the opening announcement when there is one.
func (s *sessionService) CloseAndAnnounceFinal(ctx context.Context) error {
	now := s.rt.now()
	date := s.rt.Calendar.DateKey(now)

	if !s.rt.Calendar.IsWeekday(now) {
		return domain.ErrNotAWeekday
	}

	if err := s.Close(ctx, date); err != nil {
		return err
	}

	session, err := s.getSession(ctx, date)
	if err != nil {
		return err
	}

	announcement := s.announcement(ctx, domain.AnnouncementFinal, date, now)
	if session.MessageRef != "" {
		if err := s.announcer.Update(ctx, session.MessageRef, announcement); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrAnnouncementFailed, err)
		}
		return nil
	}

	ref, err := s.announcer.Post(ctx, announcement)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAnnouncementFailed, err)
	}

	storeCtx, cancel := s.rt.storeContext(ctx)
	defer cancel()

	if err := s.sessions.SetMessageRef(storeCtx, date, ref); err != nil {
		return storageError(err)
	}
	return nil
}

func (s *sessionService) AnnounceDelivery(ctx context.Context) error {
	now := s.rt.now()
	announcement := domain.Announcement{
		Kind:        domain.AnnouncementDelivery,
		Date:        s.rt.Calendar.DateKey(now),
		MenuTotals:  domain.NewMenuCounts(),
		CloseHour:   s.rt.Calendar.CloseHour(),
		GeneratedAt: now,
	}

	if _, err := s.announcer.Post(ctx, announcement); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAnnouncementFailed, err)
	}
	return nil
}

func (s *sessionService) Status(ctx context.Context, date string) (*domain.SessionStatus, error) {
	now := s.rt.now()
	today := s.rt.Calendar.DateKey(now)

	date, err := s.rt.resolveDate(date)
	if err != nil {
		return nil, err
	}

	session, err := s.getSession(ctx, date)
	if err != nil {
		return nil, err
	}

	status := &domain.SessionStatus{
		Session:        *session,
		Weekday:        s.rt.Calendar.IsWeekday(now),
		OrderingWindow: s.rt.Calendar.IsOrderingWindow(now),
		PastDeadline:   s.rt.Calendar.IsPastDeadline(now),
	}
	status.AcceptingVotes = date == today && !status.PastDeadline && !session.Closed
	return status, nil
}

// getSession never returns nil: an untouched date reads as the default
// session.
func (s *sessionService) getSession(ctx context.Context, date string) (*domain.Session, error) {
	storeCtx, cancel := s.rt.storeContext(ctx)
	defer cancel()

	session, err := s.sessions.GetSession(storeCtx, date)
	if err != nil {
		return nil, storageError(err)
	}
	if session == nil {
		def := domain.DefaultSession(date)
		return &def, nil
	}
	return session, nil
}

// announcement renders the day's totals. Totals degrade to zero when the
// votes cannot be read; the message is still worth sending.
func (s *sessionService) announcement(ctx context.Context, kind domain.AnnouncementKind, date string, now time.Time) domain.Announcement {
	a := domain.Announcement{
		Kind:        kind,
		Date:        date,
		MenuTotals:  domain.NewMenuCounts(),
		CloseHour:   s.rt.Calendar.CloseHour(),
		GeneratedAt: now,
	}

	storeCtx, cancel := s.rt.storeContext(ctx)
	defer cancel()

	votes, err := s.votes.ListVotesByDate(storeCtx, date)
	if err != nil {
		s.rt.Logger.Error("failed to read votes for announcement", "date", date, "error", err)
		return a
	}
	for _, v := range votes {
		a.MenuTotals[v.Menu]++
	}
	a.Voters = len(votes)
	return a
}
