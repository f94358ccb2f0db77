package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"chat-simulator/internal/db"
	"chat-simulator/internal/models"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	database, err := db.Connect(path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return New(database)
}

func TestReadMissingKeyReportsAbsent(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "chat.db"))

	name := "fallback"
	found := s.ReadJSON(context.Background(), KeyUserName, &name)
	require.False(t, found)
	require.Equal(t, "fallback", name, "dest must stay untouched")
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.db")
	s := openTestStore(t, path)

	prefs := models.Preferences{NotificationsEnabled: true, SoundEnabled: false, Theme: "dark"}
	require.NoError(t, s.WriteJSON(context.Background(), KeyNotificationsEnabled, prefs.NotificationsEnabled))
	require.NoError(t, s.WriteJSON(context.Background(), KeyTheme, prefs.Theme))

	// Reopen to simulate a process restart.
	reopened := openTestStore(t, path)

	var enabled bool
	require.True(t, reopened.ReadJSON(context.Background(), KeyNotificationsEnabled, &enabled))
	require.True(t, enabled)

	var theme string
	require.True(t, reopened.ReadJSON(context.Background(), KeyTheme, &theme))
	require.Equal(t, "dark", theme)
}

func TestOverwriteReplacesValue(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "chat.db"))

	require.NoError(t, s.WriteJSON(context.Background(), KeyUserName, "Alice"))
	require.NoError(t, s.WriteJSON(context.Background(), KeyUserName, "Bob"))

	var name string
	require.True(t, s.ReadJSON(context.Background(), KeyUserName, &name))
	require.Equal(t, "Bob", name)
}

func TestCorruptValueTreatedAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.db")
	database, err := db.Connect(path)
	require.NoError(t, err)
	defer database.Close()
	s := New(database)

	_, err = database.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, KeySoundEnabled, "{not json")
	require.NoError(t, err)

	enabled := true
	found := s.ReadJSON(context.Background(), KeySoundEnabled, &enabled)
	require.False(t, found)
	require.True(t, enabled, "default must survive a corrupt value")
}

func TestMessageListRoundTrip(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "chat.db"))

	msgs := []models.Message{
		{ID: 1, Text: "Olá, pessoal!", Sender: models.SenderRemote, SenderName: "João"},
		{ID: 4, Text: "hi", Sender: models.SenderLocal, SenderName: "Alice"},
	}
	require.NoError(t, s.WriteJSON(context.Background(), KeyMessages, msgs))

	var loaded []models.Message
	require.True(t, s.ReadJSON(context.Background(), KeyMessages, &loaded))
	require.Equal(t, msgs, loaded)
}
