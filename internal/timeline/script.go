package timeline

import "time"

// Turn is one scripted (participant, text) unit of the simulated conversation.
type Turn struct {
	Author string
	Text   string
}

const (
	// TurnInterval is the delay before each scripted turn starts typing.
	TurnInterval = 5 * time.Second
	// TypingDuration is how long a participant is shown as typing before the
	// delivery append is issued.
	TypingDuration = 2 * time.Second
	// TypingIdleWindow is how long the local typing flag survives without
	// further input before it auto-clears.
	TypingIdleWindow = time.Second
)

// The script exhausts: after the last turn the scheduler stops for the rest
// of the session. It never cycles back to the first entry.

// DefaultScript returns the fixed ordered list of simulated participant turns.
func DefaultScript() []Turn {
	return []Turn{
		{Author: "Ana", Text: "Que legal esse chat!"},
		{Author: "Pedro", Text: "Estou gostando da interface!"},
		{Author: "Carlos", Text: "Como vocês estão hoje?"},
		{Author: "Lucia", Text: "Esse chat está funcionando bem!"},
		{Author: "Roberto", Text: "Boa tarde pessoal! 🌅"},
		{Author: "Fernanda", Text: "Alguém sabe que horas são?"},
		{Author: "Diego", Text: "Adorei o design deste chat!"},
		{Author: "Camila", Text: "Vamos conversar mais! 💬"},
	}
}
