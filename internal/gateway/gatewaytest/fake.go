// Package gatewaytest provides an in-memory Gateway for driving the game
// engine in tests without a live chat transport.
package gatewaytest

import (
	"context"
	"sync"

	"arcade-bot/internal/gateway"
)

type Presentation struct {
	ChannelID string
	Content   gateway.RoundContent
	Handle    gateway.MessageHandle
	Disabled  bool
}

type Fake struct {
	mu            sync.Mutex
	nextMessageID int
	presentations []*Presentation
	notices       []string

	// PresentErr, when set, fails the next PresentRound call.
	PresentErr error
}

func New() *Fake {
	return &Fake{nextMessageID: 1}
}

func (f *Fake) PresentRound(_ context.Context, channelID string, content gateway.RoundContent) (gateway.MessageHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PresentErr != nil {
		err := f.PresentErr
		f.PresentErr = nil
		return gateway.MessageHandle{}, err
	}
	h := gateway.MessageHandle{ChatID: 1, MessageID: f.nextMessageID}
	f.nextMessageID++
	f.presentations = append(f.presentations, &Presentation{
		ChannelID: channelID,
		Content:   content,
		Handle:    h,
	})
	return h, nil
}

func (f *Fake) DisablePresentation(_ context.Context, handle gateway.MessageHandle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.presentations {
		if p.Handle == handle {
			p.Disabled = true
		}
	}
	return nil
}

func (f *Fake) DispatchNotice(_ context.Context, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, text)
	return nil
}

func (f *Fake) Presentations() []Presentation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Presentation, len(f.presentations))
	for i, p := range f.presentations {
		out[i] = *p
	}
	return out
}

func (f *Fake) Notices() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.notices...)
}
