// Package relay runs the panel controller behind a Redis Pub/Sub bridge.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dyluth/punchcard/internal/panel"
	"github.com/dyluth/punchcard/pkg/relay"
)

// Engine consumes button and start events from Redis and applies them to a
// panel.Controller. Each event is handled on its own goroutine.
type Engine struct {
	client *relay.Client
	ctrl   *panel.Controller
	wg     sync.WaitGroup
}

// NewEngine creates a relay engine.
func NewEngine(client *relay.Client, ctrl *panel.Controller) *Engine {
	return &Engine{client: client, ctrl: ctrl}
}

// Run subscribes to the inbound channels and blocks until ctx is cancelled.
// In-flight events are allowed to finish before Run returns.
func (e *Engine) Run(ctx context.Context) error {
	log.Printf("[Relay] Starting for instance '%s'", e.client.InstanceName())

	buttons, err := e.client.SubscribeButtonEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to button events: %w", err)
	}
	defer buttons.Close()

	starts, err := e.client.SubscribeStartEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to start events: %w", err)
	}
	defer starts.Close()

	log.Printf("[Relay] Subscribed to button_events and start_events")
	defer e.wg.Wait()

	buttonErrs, startErrs := buttons.Errors(), starts.Errors()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[Relay] Shutting down...")
			return nil

		case ev, ok := <-buttons.Events():
			if !ok {
				log.Printf("[Relay] Button subscription closed")
				return nil
			}
			e.dispatch(func() { e.handleButton(ctx, ev) })

		case ev, ok := <-starts.Events():
			if !ok {
				log.Printf("[Relay] Start subscription closed")
				return nil
			}
			e.dispatch(func() { e.handleStart(ctx, ev) })

		case err, ok := <-buttonErrs:
			if !ok {
				buttonErrs = nil
				continue
			}
			log.Printf("[Relay] Subscription error: %v", err)

		case err, ok := <-startErrs:
			if !ok {
				startErrs = nil
				continue
			}
			log.Printf("[Relay] Subscription error: %v", err)
		}
	}
}

func (e *Engine) dispatch(fn func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		fn()
	}()
}

func (e *Engine) handleButton(ctx context.Context, ev *relay.ButtonEvent) {
	startTime := time.Now()
	ownerID := e.ownerOf(ctx, ev)
	a := NewAdapter(e.client, ev.ID, ownerID)

	_, err := e.ctrl.HandleButton(ctx, panel.ButtonEvent{
		Panel:     panel.MessageRef{ChannelID: ev.ChannelID, MessageID: ev.MessageID},
		Button:    panel.Button(ev.Button),
		ActorID:   ev.ActorID,
		ActorName: ev.ActorName,
		OwnerID:   ownerID,
	}, a)

	e.finish(ctx, a, "button", ev.ID, startTime, err)
}

// ownerOf returns the owner recorded on the stored message, falling back to
// the owner named by the event for messages the relay has never stored.
func (e *Engine) ownerOf(ctx context.Context, ev *relay.ButtonEvent) string {
	msg, err := e.client.GetMessage(ctx, ev.MessageID)
	if err != nil {
		if !relay.IsNotFound(err) {
			log.Printf("[Relay] Failed to load message %s: %v", ev.MessageID, err)
		}
		return ev.OwnerID
	}
	if msg.OwnerID == "" {
		return ev.OwnerID
	}
	return msg.OwnerID
}

func (e *Engine) handleStart(ctx context.Context, ev *relay.StartEvent) {
	startTime := time.Now()
	a := NewAdapter(e.client, ev.ID, ev.UserID)

	_, err := e.ctrl.Start(ctx, ev.UserID, ev.DisplayName, ev.ChannelID, a)
	if err != nil {
		var adapterErr *panel.AdapterError
		notice := "Could not open your panel. Please try again."
		if errors.As(err, &adapterErr) {
			notice = adapterErr.Notice()
		}
		if nErr := a.SendPrivateNotice(ctx, ev.UserID, notice); nErr != nil {
			log.Printf("[Relay] Failed to notify %s: %v", ev.UserID, nErr)
		}
	}

	e.finish(ctx, a, "start", ev.ID, startTime, err)
}

func (e *Engine) finish(ctx context.Context, a *Adapter, kind, eventID string, startTime time.Time, err error) {
	data := map[string]interface{}{
		"event_id":    eventID,
		"kind":        kind,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}
	if err != nil {
		data["error"] = err.Error()
		e.logEvent("event_failed", data)
	} else {
		e.logEvent("event_handled", data)
	}

	if cErr := a.Complete(ctx, err); cErr != nil {
		log.Printf("[Relay] Failed to publish completion for %s: %v", eventID, cErr)
	}
}

// logEvent logs a structured event in JSON format.
func (e *Engine) logEvent(eventType string, data map[string]interface{}) {
	event := map[string]interface{}{
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"level":      "info",
		"component":  "relay",
		"event_type": eventType,
	}
	for k, v := range data {
		event[k] = v
	}

	jsonBytes, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Relay] Failed to marshal log event: %v", err)
		return
	}
	log.Println(string(jsonBytes))
}
