package inventory

import (
	"testing"

	"cammanager/internal/constants"
	"cammanager/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	Channel string
	Type    string
	Data    interface{}
}

// recordingBroadcaster captures emitted events for assertions.
type recordingBroadcaster struct {
	events []recordedEvent
}

func (b *recordingBroadcaster) Broadcast(channel, msgType string, data interface{}) {
	b.events = append(b.events, recordedEvent{Channel: channel, Type: msgType, Data: data})
}

func (b *recordingBroadcaster) on(channel string) []recordedEvent {
	var out []recordedEvent
	for _, e := range b.events {
		if e.Channel == channel {
			out = append(out, e)
		}
	}
	return out
}

func TestSaveCamera_BroadcastsInventoryAndAudit(t *testing.T) {
	svc, _ := setupService(t)
	bc := &recordingBroadcaster{}
	svc.SetBroadcaster(bc)

	cam := mustAddCamera(t, svc, "Gate A", "10.0.0.1", "", "", "")

	inv := bc.on(constants.ChannelInventory)
	require.Len(t, inv, 1)
	assert.Equal(t, "camera.saved", inv[0].Type)

	aud := bc.on(constants.ChannelAudit)
	require.Len(t, aud, 1)
	assert.Equal(t, "audit.created", aud[0].Type)
	entry, ok := aud[0].Data.(*database.AuditLog)
	require.True(t, ok)
	assert.Equal(t, constants.ActionAdd, entry.Action)
	assert.Equal(t, cam.Name, entry.TargetName)
	assert.NotZero(t, entry.ID)
}

func TestFailedSave_BroadcastsNothing(t *testing.T) {
	svc, _ := setupService(t)
	mustAddCamera(t, svc, "Gate A", "10.0.0.1", "", "", "")

	bc := &recordingBroadcaster{}
	svc.SetBroadcaster(bc)

	_, err := svc.SaveCamera(&database.Camera{Name: "Gate B", IP: "10.0.0.1"}, "tester")
	require.ErrorIs(t, err, ErrDuplicateIP)
	assert.Empty(t, bc.events)
}

func TestDeleteRecorder_BroadcastsAudit(t *testing.T) {
	svc, _ := setupService(t)
	rec, err := svc.SaveRecorder(&database.Recorder{Name: "NVR-1", IP: "10.0.1.1"}, "tester")
	require.NoError(t, err)

	bc := &recordingBroadcaster{}
	svc.SetBroadcaster(bc)

	require.NoError(t, svc.DeleteRecorder(rec.ID, "tester"))

	aud := bc.on(constants.ChannelAudit)
	require.Len(t, aud, 1)
	entry := aud[0].Data.(*database.AuditLog)
	assert.Equal(t, constants.ActionDelete, entry.Action)
	assert.Equal(t, "NVR-1", entry.TargetName)
}
