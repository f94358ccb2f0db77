package models

// Snapshot is the full presentation contract: the ordered message list plus
// the transient typing/sending flags for the current session.
type Snapshot struct {
	Identity    string    `json:"identity"`
	State       string    `json:"state"`
	Messages    []Message `json:"messages"`
	TypingUser  string    `json:"typing_user,omitempty"`
	LocalTyping bool      `json:"local_typing"`
	Sending     bool      `json:"sending"`
}

// Preferences are the persisted user toggles. They gate side effects only and
// never influence timeline ordering.
type Preferences struct {
	NotificationsEnabled bool   `json:"notifications_enabled"`
	SoundEnabled         bool   `json:"sound_enabled"`
	Theme                string `json:"theme"`
}
