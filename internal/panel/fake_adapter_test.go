package panel

import (
	"context"
	"fmt"
	"sync"
)

type editCall struct {
	Ref  MessageRef
	View View
}

type sendCall struct {
	ChannelID string
	View      View
	Ref       MessageRef
}

type noticeCall struct {
	UserID string
	Text   string
}

// fakeAdapter records every effect. failSend, when set, is consulted before
// each SendMessage with the zero-based send index.
type fakeAdapter struct {
	mu       sync.Mutex
	edits    []editCall
	sends    []sendCall
	notices  []noticeCall
	nextID   int
	failSend func(n int, view View) error
	failEdit error
}

func (f *fakeAdapter) EditMessage(ctx context.Context, ref MessageRef, view View) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failEdit != nil {
		return f.failEdit
	}
	f.edits = append(f.edits, editCall{Ref: ref, View: view})
	return nil
}

func (f *fakeAdapter) SendMessage(ctx context.Context, channelID string, view View) (MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend != nil {
		if err := f.failSend(len(f.sends), view); err != nil {
			return MessageRef{}, err
		}
	}
	f.nextID++
	ref := MessageRef{ChannelID: channelID, MessageID: fmt.Sprintf("msg-%d", f.nextID)}
	f.sends = append(f.sends, sendCall{ChannelID: channelID, View: view, Ref: ref})
	return ref, nil
}

func (f *fakeAdapter) SendPrivateNotice(ctx context.Context, userID string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, noticeCall{UserID: userID, Text: text})
	return nil
}

func (f *fakeAdapter) lastEdit() editCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edits[len(f.edits)-1]
}

func (f *fakeAdapter) counts() (edits, sends, notices int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edits), len(f.sends), len(f.notices)
}

func (f *fakeAdapter) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits, f.sends, f.notices = nil, nil, nil
}
