package schedule

import (
	"testing"

	"github.com/alexanderramin/daywatch/internal/domain"
	"github.com/alexanderramin/daywatch/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDayEvents_TwoEventsPerValidSlot(t *testing.T) {
	entries := []*domain.TimetableEntry{
		testutil.NewTestEntry("a1", "09:00", "10:00"),
		testutil.NewTestEntry("a2", "10:30", "11:15"),
		testutil.NewTestEntry("a3", "13:00", "14:00"),
	}

	events := BuildDayEvents(entries, testDay)

	require.Len(t, events, 2*len(entries))
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].At.Before(events[i-1].At),
			"timestamps must be non-decreasing at index %d", i)
	}
}

func TestBuildDayEvents_SkipsInvalidSlots(t *testing.T) {
	entries := []*domain.TimetableEntry{
		testutil.NewTestEntry("a1", "09:00", "09:00"), // zero length
		testutil.NewTestEntry("a2", "22:00", "06:00"), // overnight, unsupported
		testutil.NewTestEntry("a3", "nonsense", "10:00"),
		testutil.NewTestEntry("a4", "10:00", "25:99"),
		testutil.NewTestEntry("a5", "10:00", "11:00"), // the only valid one
	}

	events := BuildDayEvents(entries, testDay)

	require.Len(t, events, 2)
	assert.Equal(t, "a5", events[0].ActivityID)
	assert.Equal(t, domain.EventStart, events[0].Kind)
	assert.Equal(t, domain.EventEnd, events[1].Kind)
}

func TestBuildDayEvents_CombinesWithDayDate(t *testing.T) {
	entries := []*domain.TimetableEntry{
		testutil.NewTestEntry("a1", "09:30", "10:45"),
	}

	events := BuildDayEvents(entries, testDay)

	require.Len(t, events, 2)
	assert.Equal(t, at("09:30"), events[0].At)
	assert.Equal(t, at("10:45"), events[1].At)
	assert.Equal(t, "09:30", events[0].SlotStart)
	assert.Equal(t, "10:45", events[0].SlotEnd)
}

func TestBuildDayEvents_StableTieBreakOnInputOrder(t *testing.T) {
	// A's end and B's start coincide; input order must be preserved
	// so the end always precedes the adjacent start.
	a := testutil.NewTestEntry("actA", "09:00", "10:00")
	b := testutil.NewTestEntry("actB", "10:00", "11:00")

	events := BuildDayEvents([]*domain.TimetableEntry{a, b}, testDay)

	require.Len(t, events, 4)
	assert.Equal(t, domain.EventStart, events[0].Kind)
	assert.Equal(t, "actA", events[0].ActivityID)
	assert.Equal(t, domain.EventEnd, events[1].Kind)
	assert.Equal(t, "actA", events[1].ActivityID)
	assert.Equal(t, domain.EventStart, events[2].Kind)
	assert.Equal(t, "actB", events[2].ActivityID)
	assert.Equal(t, domain.EventEnd, events[3].Kind)
}

func TestBuildDayEvents_Empty(t *testing.T) {
	assert.Empty(t, BuildDayEvents(nil, testDay))
	assert.Empty(t, BuildDayEvents([]*domain.TimetableEntry{}, testDay))
}
