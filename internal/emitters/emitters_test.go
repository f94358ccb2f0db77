package emitters

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-simulator/internal/mocks"
	"chat-simulator/internal/store"
)

// prefsStub is an in-memory store.KV holding preference values.
type prefsStub struct {
	values map[string]any
}

func (p *prefsStub) ReadJSON(_ context.Context, key string, dest any) bool {
	val, ok := p.values[key]
	if !ok {
		return false
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (p *prefsStub) WriteJSON(_ context.Context, key string, value any) error {
	p.values[key] = value
	return nil
}

func TestNotifierPublishesWhenEnabled(t *testing.T) {
	publisher := &mocks.PublisherMock{}
	prefs := &prefsStub{values: map[string]any{store.KeyNotificationsEnabled: true}}
	n := NewNotifier(publisher, prefs, "chat-simulator")

	n.MessageReceived(context.Background(), "Ana", "Que legal esse chat!")

	events := publisher.Published()
	require.Len(t, events, 1)
	require.Equal(t, routingKeyNotification, events[0].RoutingKey)

	envelope, ok := events[0].Event.(Envelope)
	require.True(t, ok)
	require.Equal(t, "notification", envelope.EventType)
}

func TestNotifierSuppressedWhenDisabled(t *testing.T) {
	publisher := &mocks.PublisherMock{}
	prefs := &prefsStub{values: map[string]any{store.KeyNotificationsEnabled: false}}
	n := NewNotifier(publisher, prefs, "chat-simulator")

	n.MessageReceived(context.Background(), "Ana", "Que legal esse chat!")

	require.Empty(t, publisher.Published())
}

func TestNotifierDefaultsToEnabled(t *testing.T) {
	publisher := &mocks.PublisherMock{}
	prefs := &prefsStub{values: map[string]any{}}
	n := NewNotifier(publisher, prefs, "chat-simulator")

	n.MessageReceived(context.Background(), "Ana", "oi")

	require.Len(t, publisher.Published(), 1)
}

func TestAudioCuesGatedBySoundPreference(t *testing.T) {
	publisher := &mocks.PublisherMock{}
	prefs := &prefsStub{values: map[string]any{store.KeySoundEnabled: true}}
	a := NewAudio(publisher, prefs, "chat-simulator")

	a.PlaySendCue(context.Background())
	a.PlayReceiveCue(context.Background())

	events := publisher.Published()
	require.Len(t, events, 2)
	require.Equal(t, routingKeySound, events[0].RoutingKey)

	prefs.values[store.KeySoundEnabled] = false
	a.PlaySendCue(context.Background())
	require.Len(t, publisher.Published(), 2)
}

func TestAudioPublishFailureIsSwallowed(t *testing.T) {
	publisher := &mocks.PublisherMock{Err: context.DeadlineExceeded}
	prefs := &prefsStub{values: map[string]any{}}
	a := NewAudio(publisher, prefs, "chat-simulator")

	// must not panic or propagate
	a.PlaySendCue(context.Background())
}
