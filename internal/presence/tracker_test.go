package presence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_FirstConnectionFiresTransition(t *testing.T) {
	tracker := NewTracker()

	transition := tracker.Connect("alice")
	require.NotNil(t, transition, "The 0->1 transition should be reported")
	assert.Equal(t, "alice", transition.UserID)
	assert.True(t, transition.Online)
	assert.True(t, tracker.IsOnline("alice"))
}

func TestTracker_SecondDeviceIsSilent(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker.Connect("alice"))
	assert.Nil(t, tracker.Connect("alice"), "A second connection for the same user should not fire another online event")
	assert.Equal(t, 2, tracker.ConnectionCount("alice"))
}

func TestTracker_OfflineOnlyOnLastDisconnect(t *testing.T) {
	tracker := NewTracker()

	tracker.Connect("alice")
	tracker.Connect("alice")

	assert.Nil(t, tracker.Disconnect("alice"), "Dropping one of two connections should not fire offline")
	assert.True(t, tracker.IsOnline("alice"))

	transition := tracker.Disconnect("alice")
	require.NotNil(t, transition, "Dropping the last connection should fire offline")
	assert.False(t, transition.Online)
	assert.False(t, tracker.IsOnline("alice"))
	assert.Equal(t, 0, tracker.ConnectionCount("alice"))
}

func TestTracker_DuplicateDisconnectIsNoop(t *testing.T) {
	tracker := NewTracker()

	tracker.Connect("alice")
	require.NotNil(t, tracker.Disconnect("alice"))

	assert.Nil(t, tracker.Disconnect("alice"), "Disconnecting an offline user should be a no-op")
	assert.Nil(t, tracker.Disconnect("ghost"), "Disconnecting an unknown user should be a no-op")
}

func TestTracker_OnlineUsers(t *testing.T) {
	tracker := NewTracker()

	tracker.Connect("alice")
	tracker.Connect("bob")
	tracker.Connect("bob")
	tracker.Connect("carol")
	tracker.Disconnect("carol")

	online := tracker.OnlineUsers()
	assert.ElementsMatch(t, []string{"alice", "bob"}, online)
}
