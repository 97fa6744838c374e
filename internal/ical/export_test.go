package ical

import (
	"bytes"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trygginn/trygginn/internal/domain"
)

func TestExport_RoundTrip(t *testing.T) {
	start := time.Date(2025, 5, 16, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	group := int64(3)
	events := []domain.KindergartenEvent{
		{ID: 2, Title: "Skogstur", Start: start.AddDate(0, 0, 7), Scope: "Ørn", GroupID: &group},
		{ID: 1, Title: "17. mai-feiring", Description: "Tog og is", Location: "Uteområdet", Start: start, End: &end},
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, "Solsikken barnehage", events, start))
	assert.Contains(t, buf.String(), "X-WR-CALNAME:Solsikken barnehage")

	cal, err := ics.ParseCalendar(&buf)
	require.NoError(t, err)
	parsed := cal.Events()
	require.Len(t, parsed, 2)

	first := parsed[0]
	assert.Equal(t, UID(1), first.Id())
	assert.Equal(t, "17. mai-feiring", first.GetProperty(ics.ComponentPropertySummary).Value)
	assert.Equal(t, "Uteområdet", first.GetProperty(ics.ComponentPropertyLocation).Value)
	assert.Equal(t, domain.ScopeWholeKindergarten, first.GetProperty(ics.ComponentPropertyCategories).Value)
	gotStart, err := first.GetStartAt()
	require.NoError(t, err)
	assert.True(t, gotStart.Equal(start))
	gotEnd, err := first.GetEndAt()
	require.NoError(t, err)
	assert.True(t, gotEnd.Equal(end))

	second := parsed[1]
	assert.Equal(t, UID(2), second.Id())
	assert.Equal(t, "Ørn", second.GetProperty(ics.ComponentPropertyCategories).Value)
	assert.Nil(t, second.GetProperty(ics.ComponentPropertyDtEnd))
	assert.Nil(t, second.GetProperty(ics.ComponentPropertyDescription))
}

func TestExport_RejectsMissingStart(t *testing.T) {
	var buf bytes.Buffer
	err := Export(&buf, "", []domain.KindergartenEvent{{ID: 9, Title: "Uten tid"}}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 9")
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, "", nil, time.Now()))
	assert.Contains(t, buf.String(), "BEGIN:VCALENDAR")
	assert.NotContains(t, buf.String(), "BEGIN:VEVENT")
}
