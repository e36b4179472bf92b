package relay

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestButtonEventValidate(t *testing.T) {
	valid := func() ButtonEvent {
		return ButtonEvent{
			ID:        uuid.New().String(),
			ChannelID: "chan",
			MessageID: "msg",
			Button:    "in",
			ActorID:   "alice",
			OwnerID:   "alice",
		}
	}

	e := valid()
	assert.NoError(t, e.Validate())

	cases := map[string]func(*ButtonEvent){
		"bad id":     func(e *ButtonEvent) { e.ID = "nope" },
		"no channel": func(e *ButtonEvent) { e.ChannelID = "" },
		"no message": func(e *ButtonEvent) { e.MessageID = "" },
		"no button":  func(e *ButtonEvent) { e.Button = "" },
		"no actor":   func(e *ButtonEvent) { e.ActorID = "" },
		"no owner":   func(e *ButtonEvent) { e.OwnerID = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			e := valid()
			mutate(&e)
			assert.Error(t, e.Validate())
		})
	}
}

func TestStartEventValidate(t *testing.T) {
	e := StartEvent{ID: uuid.New().String(), UserID: "alice", ChannelID: "chan"}
	assert.NoError(t, e.Validate())

	e.ChannelID = ""
	assert.Error(t, e.Validate())

	e = StartEvent{ID: uuid.New().String(), ChannelID: "chan"}
	assert.Error(t, e.Validate())
}

func TestEffectValidate(t *testing.T) {
	view := MessageView{Title: "t"}
	id := uuid.New().String()

	assert.NoError(t, (&Effect{ID: id, Type: EffectEditMessage, MessageID: "m", View: &view}).Validate())
	assert.NoError(t, (&Effect{ID: id, Type: EffectPrivateNotice, UserID: "alice", Text: "hi"}).Validate())
	assert.NoError(t, (&Effect{ID: id, Type: EffectEventCompleted, EventID: uuid.New().String()}).Validate())

	assert.Error(t, (&Effect{ID: id, Type: EffectSendMessage, MessageID: "m"}).Validate())
	assert.Error(t, (&Effect{ID: id, Type: EffectPrivateNotice}).Validate())
	assert.Error(t, (&Effect{ID: id, Type: EffectEventCompleted}).Validate())
	assert.Error(t, (&Effect{ID: id, Type: "explode"}).Validate())
	assert.Error(t, (&Effect{ID: "nope", Type: EffectPrivateNotice, UserID: "alice"}).Validate())
}

func TestSchema(t *testing.T) {
	assert.Equal(t, "punchcard:prod:message:abc", MessageKey("prod", "abc"))
	assert.Equal(t, "punchcard:prod:button_events", ButtonEventsChannel("prod"))
	assert.Equal(t, "punchcard:prod:start_events", StartEventsChannel("prod"))
	assert.Equal(t, "punchcard:prod:effects", EffectsChannel("prod"))
}

func TestMessageHashRoundTripKeepsEmptyView(t *testing.T) {
	m := &Message{ID: uuid.New().String(), ChannelID: "chan"}
	hash, err := MessageToHash(m)
	assert.NoError(t, err)

	strHash := make(map[string]string, len(hash))
	for k, v := range hash {
		strHash[k] = fmt.Sprint(v)
	}
	got, err := HashToMessage(strHash)
	assert.NoError(t, err)
	assert.Equal(t, m, got)

	_, err = HashToMessage(map[string]string{"view": "{"})
	assert.Error(t, err)
}
