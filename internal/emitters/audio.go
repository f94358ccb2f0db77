package emitters

import (
	"context"
	"log"

	"chat-simulator/internal/observability"
	"chat-simulator/internal/store"
)

// Audio emits best-effort sound cues for sent and received messages, gated by
// the sound-enabled preference. Failures never block message flow.
type Audio struct {
	publisher Publisher
	prefs     store.KV
	service   string
}

// soundPayload carries the tone parameters the client synthesizes. The values
// mirror the original two-tone receive cue and rising send cue.
type soundPayload struct {
	Cue         string  `json:"cue"`
	FrequencyHz []int   `json:"frequency_hz"`
	DurationSec float64 `json:"duration_sec"`
	Gain        float64 `json:"gain"`
}

// NewAudio builds an Audio emitter.
func NewAudio(publisher Publisher, prefs store.KV, service string) *Audio {
	return &Audio{publisher: publisher, prefs: prefs, service: service}
}

// PlaySendCue emits the message-sent cue.
func (a *Audio) PlaySendCue(ctx context.Context) {
	a.play(ctx, soundPayload{Cue: "send", FrequencyHz: []int{400, 600}, DurationSec: 0.15, Gain: 0.08})
}

// PlayReceiveCue emits the message-received cue.
func (a *Audio) PlayReceiveCue(ctx context.Context) {
	a.play(ctx, soundPayload{Cue: "receive", FrequencyHz: []int{800, 600}, DurationSec: 0.3, Gain: 0.1})
}

func (a *Audio) play(ctx context.Context, payload soundPayload) {
	if a == nil {
		return
	}

	enabled := true
	a.prefs.ReadJSON(ctx, store.KeySoundEnabled, &enabled)
	if !enabled {
		return
	}

	if a.publisher == nil {
		return
	}

	envelope := newEnvelope("sound", a.service, payload)
	if err := a.publisher.Publish(ctx, routingKeySound, envelope); err != nil {
		observability.IncAMQPPublishError()
		log.Printf("sound cue %q publish failed: %v", payload.Cue, err)
	}
}
