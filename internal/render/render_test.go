package render

import (
	"testing"

	"github.com/dyluth/punchcard/internal/record"
	"github.com/stretchr/testify/assert"
)

func fullRecord() record.DailyRecord {
	return record.DailyRecord{
		OwnerID: "alice",
		DayKey:  "2026-10-16",
		In:      "09:00 AM",
		Lunch:   "12:00 PM",
		Resume:  "01:00 PM",
		Out:     "06:00 PM",
		Locked:  true,
	}
}

func TestRender_PanelVariant(t *testing.T) {
	p := Render(Input{
		OwnerName: "Alice",
		DayLabel:  "Oct 16, 2026 (Friday)",
		Record:    record.DailyRecord{OwnerID: "alice", DayKey: "2026-10-16"},
		Variant:   VariantPanel,
	})

	assert.Equal(t, Title, p.Title)
	assert.Equal(t, "Alice", p.Author)
	assert.Equal(t, FooterPrompt, p.Footer)
	assert.Equal(t, Color, p.Color)
	assert.Contains(t, p.Description, "📆 **Oct 16, 2026 (Friday)**")
	assert.Contains(t, p.Description, "**Last:** "+ReadyAction)
	assert.Contains(t, p.Description, "🟢 **In:** -")
	assert.Contains(t, p.Description, "🔴 **Out:** -")
	assert.Contains(t, p.Description, "_"+StartPrompt+"_")
}

func TestRender_ProgressShowsSetFieldsOnly(t *testing.T) {
	p := Render(Input{
		DayLabel:   "Oct 16, 2026 (Friday)",
		Record:     record.DailyRecord{In: "09:00 AM", Resume: "01:00 PM"},
		Quote:      "Keep going.",
		LastAction: LastAction(record.FieldResume, "01:00 PM"),
		Variant:    VariantProgress,
	})

	assert.Contains(t, p.Description, "🟢 **In:** 09:00 AM")
	assert.Contains(t, p.Description, "🟡 **Lunch:** -")
	assert.Contains(t, p.Description, "🟠 **Resume:** 01:00 PM")
	assert.Contains(t, p.Description, "**Last:** 🟠 RESUME — 01:00 PM")
	assert.Contains(t, p.Description, "✨ _Keep going._")
	assert.Equal(t, FooterPrompt, p.Footer)
}

func TestRender_DoneVariant(t *testing.T) {
	p := Render(Input{Record: fullRecord(), Quote: "Rest.", Variant: VariantDone})
	assert.Equal(t, FooterDone, p.Footer)
	assert.Contains(t, p.Description, "🔴 **Out:** 06:00 PM")
}

func TestRender_Deterministic(t *testing.T) {
	in := Input{OwnerName: "Alice", DayLabel: "x", Record: fullRecord(), Quote: "q", Variant: VariantProgress}
	assert.Equal(t, Render(in), Render(in))
}

func TestRender_FieldOrder(t *testing.T) {
	p := Render(Input{Record: fullRecord(), Variant: VariantDone})
	want := "🟢 **In:** 09:00 AM\n🟡 **Lunch:** 12:00 PM\n🟠 **Resume:** 01:00 PM\n🔴 **Out:** 06:00 PM"
	assert.Contains(t, p.Description, want)
}

func TestArchive(t *testing.T) {
	p := Archive("Alice", "Oct 16, 2026 (Friday)", fullRecord())

	assert.Equal(t, FooterDone, p.Footer)
	assert.Contains(t, p.Description, "**Last:** "+ArchivedAction)
	assert.Contains(t, p.Description, "_"+ClosingQuote+"_")
	for _, v := range []string{"09:00 AM", "12:00 PM", "01:00 PM", "06:00 PM"} {
		assert.Contains(t, p.Description, v)
	}
}

func TestLastAction(t *testing.T) {
	assert.Equal(t, "🟢 IN — 09:00 AM", LastAction(record.FieldIn, "09:00 AM"))
	assert.Equal(t, "🔴 OUT — 06:00 PM", LastAction(record.FieldOut, "06:00 PM"))
	assert.Equal(t, "NAP — 02:00 PM", LastAction(record.Field("nap"), "02:00 PM"))
}

func TestVariantValidate(t *testing.T) {
	assert.NoError(t, VariantDone.Validate())
	assert.Error(t, Variant("fancy").Validate())
}
