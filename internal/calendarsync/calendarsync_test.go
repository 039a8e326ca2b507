package calendarsync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/wagneradl/opsdesk/internal/models"
)

func TestEventFromMeeting(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	m := models.Meeting{ID: "m1", Title: "Sprint Review", Date: "2026-10-15", Time: "14:00", Type: "client"}

	ev, err := EventFromMeeting(m, loc)
	require.NoError(t, err)
	assert.Equal(t, "Sprint Review", ev.Summary)
	assert.Equal(t, "2026-10-15T17:00:00Z", ev.Start.DateTime)
	assert.Equal(t, "2026-10-15T18:00:00Z", ev.End.DateTime)
	assert.Equal(t, "m1", ev.ExtendedProperties.Private[PropertyKey])

	_, err = EventFromMeeting(models.Meeting{ID: "bad", Date: "tomorrow", Time: "9am"}, loc)
	assert.Error(t, err)
}

// fakeCalendar serves the subset of the Calendar API the publisher uses.
type fakeCalendar struct {
	mu       sync.Mutex
	events   map[string]calendar.Event // by meeting id
	inserted int
	patched  int
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/events"):
		want := strings.TrimPrefix(r.URL.Query().Get("privateExtendedProperty"), PropertyKey+"=")
		var items []calendar.Event
		if ev, ok := f.events[want]; ok {
			items = append(items, ev)
		}
		json.NewEncoder(w).Encode(map[string]any{"items": items})
	case r.Method == http.MethodPost:
		var ev calendar.Event
		json.NewDecoder(r.Body).Decode(&ev)
		ev.Id = "ev-" + ev.ExtendedProperties.Private[PropertyKey]
		f.events[ev.ExtendedProperties.Private[PropertyKey]] = ev
		f.inserted++
		json.NewEncoder(w).Encode(ev)
	case r.Method == http.MethodPatch:
		var ev calendar.Event
		json.NewDecoder(r.Body).Decode(&ev)
		f.patched++
		json.NewEncoder(w).Encode(ev)
	default:
		http.Error(w, "unexpected "+r.Method+" "+r.URL.Path, http.StatusBadRequest)
	}
}

func TestPublishInsertsThenPatches(t *testing.T) {
	fake := &fakeCalendar{events: map[string]calendar.Event{}}
	ts := httptest.NewServer(fake)
	defer ts.Close()

	ctx := context.Background()
	srv, err := calendar.NewService(ctx, option.WithEndpoint(ts.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	p := New(srv, "primary", time.UTC, nil)

	m := models.Meeting{ID: "m9", Title: "Kick-off", Date: "2026-10-20", Time: "11:00", Type: "internal"}
	require.NoError(t, p.Publish(ctx, m))
	require.NoError(t, p.Publish(ctx, m))

	assert.Equal(t, 1, fake.inserted)
	assert.Equal(t, 1, fake.patched)
	assert.Equal(t, "Kick-off", fake.events["m9"].Summary)
}
