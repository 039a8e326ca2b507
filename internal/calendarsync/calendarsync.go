// Package calendarsync mirrors scheduled meetings into a Google Calendar.
package calendarsync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/wagneradl/opsdesk/internal/models"
)

// PropertyKey is the private extended property that links an event to its
// meeting.
const PropertyKey = "opsdesk_meeting_id"

// Duration is the length given to every mirrored meeting.
const Duration = time.Hour

// EventFromMeeting converts a meeting into a calendar event. Date and time
// are read in loc.
func EventFromMeeting(m models.Meeting, loc *time.Location) (*calendar.Event, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", m.Date+" "+m.Time, loc)
	if err != nil {
		return nil, fmt.Errorf("meeting %q: %w", m.ID, err)
	}
	return &calendar.Event{
		Summary:     m.Title,
		Description: fmt.Sprintf("Type: %s", m.Type),
		Start:       &calendar.EventDateTime{DateTime: start.UTC().Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: start.Add(Duration).UTC().Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{PropertyKey: m.ID},
		},
	}, nil
}

// Publisher writes meetings to one calendar.
type Publisher struct {
	srv        *calendar.Service
	calendarID string
	loc        *time.Location
	logger     *zap.Logger
}

// New creates a publisher on an existing service. A nil loc means local
// time.
func New(srv *calendar.Service, calendarID string, loc *time.Location, logger *zap.Logger) *Publisher {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{srv: srv, calendarID: calendarID, loc: loc, logger: logger}
}

// Open creates a publisher authenticated with a service account key file.
func Open(ctx context.Context, credentialsFile, calendarID string, loc *time.Location, logger *zap.Logger) (*Publisher, error) {
	srv, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar service: %w", err)
	}
	return New(srv, calendarID, loc, logger), nil
}

// Publish creates the event for m, or patches it when one already exists.
func (p *Publisher) Publish(ctx context.Context, m models.Meeting) error {
	event, err := EventFromMeeting(m, p.loc)
	if err != nil {
		return err
	}

	existing, err := p.srv.Events.List(p.calendarID).
		PrivateExtendedProperty(PropertyKey + "=" + m.ID).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("search event: %w", err)
	}

	if len(existing.Items) > 0 {
		id := existing.Items[0].Id
		if _, err := p.srv.Events.Patch(p.calendarID, id, event).Context(ctx).Do(); err != nil {
			return fmt.Errorf("patch event %s: %w", id, err)
		}
		p.logger.Info("calendar event updated", zap.String("meeting", m.ID), zap.String("event", id))
		return nil
	}

	created, err := p.srv.Events.Insert(p.calendarID, event).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	p.logger.Info("calendar event created", zap.String("meeting", m.ID), zap.String("event", created.Id))
	return nil
}
