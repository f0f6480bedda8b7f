package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/mailcal/internal/client/models"
)

var stamp = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func fixtures() ([]models.CalendarEvent, []models.Todo) {
	start := time.Date(2024, 1, 2, 0, 30, 0, 0, time.UTC)
	events := []models.CalendarEvent{
		{ID: "evt-1", Title: "Team standup", Start: models.NewTimestamp(start), End: models.NewTimestamp(start.Add(15 * time.Minute)), Description: "Daily sync"},
		{ID: "evt-2", Title: "Party", Start: models.NewTimestamp(start.Add(48 * time.Hour)), End: models.NewTimestamp(start.Add(50 * time.Hour)), Completed: true},
	}
	todos := []models.Todo{
		{ID: "todo-1", Title: "Send slides", DueDate: models.NewTimestamp(start.Add(8 * time.Hour)).Ptr()},
		{ID: "todo-2", Title: "Renew passport", Completed: true, Memo: "photo first"},
	}
	return events, todos
}

func TestWrite_ParsesBack(t *testing.T) {
	events, todos := fixtures()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, events, todos, stamp))

	cal, err := ics.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)

	got := cal.Events()
	require.Len(t, got, 2)

	assert.Equal(t, "event-evt-1@mailcal", got[0].Id())
	assert.Equal(t, "Team standup", got[0].GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "Daily sync", got[0].GetProperty(ics.ComponentPropertyDescription).Value)
	start, err := got[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, events[0].Start.Equal(start))
	end, err := got[0].GetEndAt()
	require.NoError(t, err)
	assert.True(t, events[0].End.Equal(end))

	assert.Nil(t, got[1].GetProperty(ics.ComponentPropertyDescription))
	assert.Equal(t, string(ics.ObjectStatusCompleted), got[1].GetProperty(ics.ComponentPropertyStatus).Value)
}

func TestWrite_Todos(t *testing.T) {
	events, todos := fixtures()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, events, todos, stamp))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, "BEGIN:VTODO"))
	assert.Contains(t, out, "UID:todo-todo-1@mailcal")
	assert.Contains(t, out, "DUE:20240102T083000Z")
	assert.Contains(t, out, "STATUS:NEEDS-ACTION")
	assert.Contains(t, out, "DESCRIPTION:photo first")
	assert.Equal(t, 1, strings.Count(out, "DUE:"), "undated todo has no DUE")
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, nil, stamp))

	out := buf.String()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "PRODID:"+productID)
	assert.NotContains(t, out, "BEGIN:VEVENT")
}

func TestWriteFile(t *testing.T) {
	events, todos := fixtures()
	path := filepath.Join(t.TempDir(), "exports", "cal.ics")

	require.NoError(t, WriteFile(path, events, todos, stamp))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(b), "BEGIN:VEVENT"))
}
