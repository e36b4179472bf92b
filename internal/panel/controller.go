// Package panel implements the attendance panel state machine.
//
// A Controller receives button events from a chat adapter, checks that the
// actor owns the panel, applies Transition, updates the record store and
// issues edit/send/notice effects through the adapter. Each event runs as
// one critical section for its owner, so double taps from the same user are
// serialized while different users proceed in parallel.
package panel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dyluth/punchcard/internal/clock"
	"github.com/dyluth/punchcard/internal/quote"
	"github.com/dyluth/punchcard/internal/record"
	"github.com/dyluth/punchcard/internal/render"
)

// Controller is the panel state machine bound to a record store.
type Controller struct {
	store  *record.Store
	clock  clock.Clock
	quotes *quote.Selector
	logger *log.Logger

	mu     sync.Mutex
	panels map[MessageRef]*Panel
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sends controller logs to l instead of the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a controller. quotes may be nil for the default
// random selector.
func NewController(store *record.Store, quotes *quote.Selector, opts ...Option) *Controller {
	if quotes == nil {
		quotes = quote.Default()
	}
	c := &Controller{
		store:  store,
		clock:  store.Clock(),
		quotes: quotes,
		logger: log.Default(),
		panels: make(map[MessageRef]*Panel),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the record store the controller mutates.
func (c *Controller) Store() *record.Store {
	return c.store
}

// Panel returns a copy of the registered panel at ref.
func (c *Controller) Panel(ref MessageRef) (Panel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.panels[ref]
	if !ok {
		return Panel{}, false
	}
	return *p, true
}

// Panels returns copies of every registered panel.
func (c *Controller) Panels() []Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Panel, 0, len(c.panels))
	for _, p := range c.panels {
		out = append(out, *p)
	}
	return out
}

// Start (re)initializes userID's record for today and posts a fresh OPEN
// panel in channelID. Earlier panels of the same user are closed.
func (c *Controller) Start(ctx context.Context, userID, displayName, channelID string, a Adapter) (Panel, error) {
	if userID == "" {
		return Panel{}, fmt.Errorf("user id cannot be empty")
	}
	if channelID == "" {
		return Panel{}, fmt.Errorf("channel id cannot be empty")
	}

	var started Panel
	err := c.store.WithOwner(userID, func(tx *record.Tx) error {
		// The current record survives a failed send.
		rec := record.DailyRecord{OwnerID: userID, DayKey: clock.DayKey(c.clock)}

		p := Panel{
			OwnerID:   userID,
			OwnerName: displayName,
			DayKey:    rec.DayKey,
			State:     StateOpen,
		}
		view := c.view(p, rec, "", "", render.VariantPanel)

		ref, err := a.SendMessage(ctx, channelID, view)
		if err != nil {
			return newAdapterError("send_panel", err)
		}
		rec = tx.StartToday()
		p.Ref = ref

		closed := c.register(p)
		started = p

		c.logEvent("panel_started", map[string]interface{}{
			"owner_id":      userID,
			"panel":         ref.String(),
			"day_key":       rec.DayKey,
			"closed_panels": closed,
		})
		return nil
	})
	if err != nil {
		c.logEvent("start_failed", map[string]interface{}{
			"owner_id": userID,
			"error":    err.Error(),
		})
		return Panel{}, err
	}
	return started, nil
}

// HandleButton applies one button press.
//
// A press by anyone other than the owner yields exactly one private notice
// and an error matching ErrOwnershipViolation; nothing else is touched.
func (c *Controller) HandleButton(ctx context.Context, ev ButtonEvent, a Adapter) (Outcome, error) {
	if err := ev.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("invalid button event: %w", err)
	}

	// A registered panel's owner overrides whatever the event claims.
	if registered, ok := c.Panel(ev.Panel); ok {
		ev.OwnerID = registered.OwnerID
	}

	if ev.ActorID != ev.OwnerID {
		c.logEvent("ownership_violation", map[string]interface{}{
			"panel":    ev.Panel.String(),
			"button":   string(ev.Button),
			"actor_id": ev.ActorID,
			"owner_id": ev.OwnerID,
		})
		if err := a.SendPrivateNotice(ctx, ev.ActorID, NoticeNotYours); err != nil {
			c.logger.Printf("[Panel] Failed to send ownership notice to %s: %v", ev.ActorID, err)
		}
		return Outcome{Action: ActionRejected}, &OwnershipError{ActorID: ev.ActorID, OwnerID: ev.OwnerID}
	}

	var out Outcome
	err := c.store.WithOwner(ev.OwnerID, func(tx *record.Tx) error {
		var err error
		out, err = c.apply(ctx, tx, ev, a)
		return err
	})
	if err != nil {
		c.report(ctx, ev, a, err)
	}
	return out, err
}

// apply runs inside the owner's critical section.
func (c *Controller) apply(ctx context.Context, tx *record.Tx, ev ButtonEvent, a Adapter) (Outcome, error) {
	resolved := c.resolve(ev, tx)
	p := &resolved
	defer func() { c.put(*p) }()

	rec := tx.GetOrInit()

	// The locked day rolled over underneath this panel.
	if p.State == StateOutLogged && !rec.Locked {
		p.State = StateOpen
	}

	next, action := Transition(p.State, ev.Button)

	switch action {
	case ActionLog:
		return c.logTime(ctx, tx, p, ev, a)
	case ActionClockOut:
		return c.clockOut(ctx, tx, p, next, a)
	case ActionReset:
		return c.reset(ctx, tx, p, rec, a)
	}

	c.logEvent("event_ignored", map[string]interface{}{
		"panel":    p.Ref.String(),
		"button":   string(ev.Button),
		"owner_id": p.OwnerID,
		"state":    string(p.State),
	})
	if p.State == StateArchived {
		if err := a.SendPrivateNotice(ctx, ev.ActorID, NoticePanelClosed); err != nil {
			c.logger.Printf("[Panel] Failed to send closed-panel notice to %s: %v", ev.ActorID, err)
		}
	}
	return Outcome{Action: ActionIgnore, Panel: *p, Record: rec}, nil
}

func (c *Controller) logTime(ctx context.Context, tx *record.Tx, p *Panel, ev ButtonEvent, a Adapter) (Outcome, error) {
	field, _ := ev.Button.Field()
	stamp := clock.Stamp(c.clock)

	rec, err := tx.SetField(field, stamp)
	if err != nil {
		return Outcome{}, err
	}
	p.DayKey = rec.DayKey

	view := c.view(*p, rec, c.quotes.Pick(ev.Button.Category()), render.LastAction(field, stamp), render.VariantProgress)
	out := Outcome{Action: ActionLog, Panel: *p, Record: rec}

	c.logEvent("field_logged", map[string]interface{}{
		"panel":    p.Ref.String(),
		"owner_id": p.OwnerID,
		"field":    string(field),
		"value":    stamp,
		"day_key":  rec.DayKey,
	})

	if err := a.EditMessage(ctx, p.Ref, view); err != nil {
		return out, newAdapterError("edit_panel", err)
	}
	return out, nil
}

func (c *Controller) clockOut(ctx context.Context, tx *record.Tx, p *Panel, next State, a Adapter) (Outcome, error) {
	stamp := clock.Stamp(c.clock)
	rec := tx.Lock(stamp)
	p.DayKey = rec.DayKey
	p.State = next

	view := c.view(*p, rec, c.quotes.Pick(quote.CategoryOut), render.LastAction(record.FieldOut, stamp), render.VariantDone)
	out := Outcome{Action: ActionClockOut, Panel: *p, Record: rec}

	c.logEvent("clocked_out", map[string]interface{}{
		"panel":    p.Ref.String(),
		"owner_id": p.OwnerID,
		"value":    stamp,
		"day_key":  rec.DayKey,
	})

	if err := a.EditMessage(ctx, p.Ref, view); err != nil {
		return out, newAdapterError("edit_panel", err)
	}
	return out, nil
}

// reset archives rec and opens a panel for the next day. The archival send
// must succeed before anything changes; after that every remaining effect
// is attempted and the first failure is returned.
func (c *Controller) reset(ctx context.Context, tx *record.Tx, p *Panel, rec record.DailyRecord, a Adapter) (Outcome, error) {
	snapshot := rec
	label := clock.DayLabel(snapshot.DayKey, c.clock.Location())

	archive := View{Summary: render.Archive(p.OwnerName, label, snapshot)}
	archiveRef, err := a.SendMessage(ctx, p.Ref.ChannelID, archive)
	if err != nil {
		c.logEvent("archive_failed", map[string]interface{}{
			"panel":    p.Ref.String(),
			"owner_id": p.OwnerID,
			"day_key":  snapshot.DayKey,
			"error":    err.Error(),
		})
		return Outcome{Action: ActionReset, Panel: *p, Record: rec}, &DeliveryError{Err: err}
	}

	var firstErr error

	p.State = StateArchived
	closedVariant := render.VariantProgress
	if snapshot.Locked {
		closedVariant = render.VariantDone
	}
	closed := c.view(*p, snapshot, "", render.ArchivedAction, closedVariant)
	if err := a.EditMessage(ctx, p.Ref, closed); err != nil {
		c.logger.Printf("[Panel] Failed to archive panel %s: %v", p.Ref, err)
		firstErr = newAdapterError("archive_panel", err)
	}

	fresh := tx.StartNewDay()
	np := Panel{
		OwnerID:   p.OwnerID,
		OwnerName: p.OwnerName,
		DayKey:    fresh.DayKey,
		State:     StateOpen,
	}
	view := c.view(np, fresh, c.quotes.Pick(quote.CategoryReset), render.ResetAction, render.VariantPanel)

	out := Outcome{Action: ActionReset, Panel: *p, Record: fresh}
	newRef, err := a.SendMessage(ctx, p.Ref.ChannelID, view)
	if err != nil {
		c.logger.Printf("[Panel] Failed to send next-day panel for %s: %v", p.OwnerID, err)
		if firstErr == nil {
			firstErr = newAdapterError("send_panel", err)
		}
	} else {
		np.Ref = newRef
		c.register(np)
		out.NewPanel = &np
	}

	c.logEvent("day_archived", map[string]interface{}{
		"panel":        p.Ref.String(),
		"owner_id":     p.OwnerID,
		"archived_day": snapshot.DayKey,
		"archive":      archiveRef.String(),
		"next_day":     fresh.DayKey,
		"next_panel":   np.Ref.String(),
	})

	return out, firstErr
}

// resolve returns a copy of the registered panel for ev, adopting unknown
// panels with a state derived from the owner's record.
func (c *Controller) resolve(ev ButtonEvent, tx *record.Tx) Panel {
	c.mu.Lock()
	existing, ok := c.panels[ev.Panel]
	var p Panel
	if ok {
		p = *existing
	}
	c.mu.Unlock()

	if ok {
		if p.OwnerName == "" {
			p.OwnerName = ev.ActorName
		}
		return p
	}

	rec := tx.GetOrInit()
	p = Panel{
		Ref:       ev.Panel,
		OwnerID:   ev.OwnerID,
		OwnerName: ev.ActorName,
		DayKey:    rec.DayKey,
		State:     StateOpen,
	}
	if rec.Locked {
		p.State = StateOutLogged
	}

	c.logEvent("panel_adopted", map[string]interface{}{
		"panel":    ev.Panel.String(),
		"owner_id": ev.OwnerID,
		"state":    string(p.State),
	})
	return p
}

// put stores p in the registry.
func (c *Controller) put(p Panel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := p
	c.panels[p.Ref] = &stored
}

// register adds p and closes any other live panel of the same owner.
// Archived panels from earlier days are dropped from the registry.
// Returns the number of panels closed.
func (c *Controller) register(p Panel) int {
	today := clock.DayKey(c.clock)

	c.mu.Lock()
	defer c.mu.Unlock()
	closed := 0
	for ref, other := range c.panels {
		if ref == p.Ref {
			continue
		}
		if other.State == StateArchived {
			if other.DayKey < today {
				delete(c.panels, ref)
			}
			continue
		}
		if other.OwnerID == p.OwnerID {
			other.State = StateArchived
			closed++
		}
	}
	stored := p
	c.panels[p.Ref] = &stored
	return closed
}

// report tells the actor about a failed event and logs it.
func (c *Controller) report(ctx context.Context, ev ButtonEvent, a Adapter, err error) {
	notice := fmt.Sprintf(noticeAdapter, "internal")
	var deliveryErr *DeliveryError
	var adapterErr *AdapterError
	if errors.As(err, &deliveryErr) {
		notice = deliveryErr.Notice()
	} else if errors.As(err, &adapterErr) {
		notice = adapterErr.Notice()
	}

	c.logEvent("event_failed", map[string]interface{}{
		"panel":    ev.Panel.String(),
		"button":   string(ev.Button),
		"owner_id": ev.OwnerID,
		"error":    err.Error(),
	})

	if nerr := a.SendPrivateNotice(ctx, ev.ActorID, notice); nerr != nil {
		c.logger.Printf("[Panel] Failed to send failure notice to %s: %v", ev.ActorID, nerr)
	}
}

func (c *Controller) view(p Panel, rec record.DailyRecord, quoteText, lastAction string, variant render.Variant) View {
	return View{
		Summary: render.Render(render.Input{
			OwnerName:  p.OwnerName,
			DayLabel:   clock.DayLabel(rec.DayKey, c.clock.Location()),
			Record:     rec,
			Quote:      quoteText,
			LastAction: lastAction,
			Variant:    variant,
		}),
		Buttons: p.Buttons(),
	}
}

// logEvent logs a structured event in JSON format.
func (c *Controller) logEvent(eventType string, data map[string]interface{}) {
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	data["level"] = "info"
	data["component"] = "panel"
	data["event_type"] = eventType

	jsonData, err := json.Marshal(data)
	if err != nil {
		c.logger.Printf("[Panel] Failed to marshal log event: %v", err)
		return
	}

	c.logger.Println(string(jsonData))
}
