package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/scoop-dispatch/internal/models"
	"github.com/BruksfildServices01/scoop-dispatch/internal/testutil"
)

func TestEntryDefaultsActorAndEncodesMetadata(t *testing.T) {
	id := uint(9)
	log := Entry(Event{
		Action:   "service_claimed",
		Entity:   "service",
		EntityID: &id,
		Metadata: map[string]any{"employee_id": 3},
	})

	require.Equal(t, ActorUser, log.Actor)
	require.JSONEq(t, `{"employee_id":3}`, log.Metadata)
}

func TestDispatcherWritesOnClose(t *testing.T) {
	db := testutil.NewTestDB(t, &models.AuditLog{})
	d := NewDispatcher(New(db))

	d.Dispatch(Event{Action: "service_completed", Entity: "service"})
	d.Dispatch(Event{Actor: ActorSystem, Action: "claim_expired", Entity: "service"})
	d.Close()

	var logs []models.AuditLog
	require.NoError(t, db.WithContext(context.Background()).Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	require.Equal(t, ActorUser, logs[0].Actor)
	require.Equal(t, ActorSystem, logs[1].Actor)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "ignored"})
	d.Close()
}
