package blocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-RentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateFormat, s)
	require.NoError(t, err)
	return d
}

type recordingDispatcher struct {
	events []notifier.Event
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, event notifier.Event) {
	d.events = append(d.events, event)
}

func TestService_ReleaseIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	unit, err := store.Units().Create(ctx, &domain.Unit{Name: "Room", Capacity: 1, BasePrice: 5000})
	require.NoError(t, err)
	block, err := store.Blocks().Create(ctx, &domain.Block{
		UnitID: unit.ID, StartDate: day(t, "2025-03-01"), EndDate: day(t, "2025-03-03"), Source: domain.LockSourceSystem,
	})
	require.NoError(t, err)

	dispatcher := &recordingDispatcher{}
	service := NewService(store.Blocks(), store.Units(), store.TxManager(), dispatcher, logger.Nop())

	require.NoError(t, service.Release(ctx, block.ID))
	require.NoError(t, service.Release(ctx, block.ID))
	require.NoError(t, service.Release(ctx, 12345))

	require.Len(t, dispatcher.events, 1)
	assert.Equal(t, notifier.EventBlockReleased, dispatcher.events[0].Type)

	blocks, err := store.Blocks().GetByUnit(ctx, unit.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestService_List(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	unit, err := store.Units().Create(ctx, &domain.Unit{Name: "Room", Capacity: 1, BasePrice: 5000})
	require.NoError(t, err)
	for _, r := range [][2]string{{"2025-03-01", "2025-03-03"}, {"2025-04-01", "2025-04-02"}} {
		_, err := store.Blocks().Create(ctx, &domain.Block{
			UnitID: unit.ID, StartDate: day(t, r[0]), EndDate: day(t, r[1]), Source: domain.LockSourceOTA,
		})
		require.NoError(t, err)
	}

	service := NewService(store.Blocks(), store.Units(), store.TxManager(), &recordingDispatcher{}, logger.Nop())

	resp, err := service.List(ctx, unit.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.Blocks, 2)
	assert.Equal(t, "2025-03-01", resp.Blocks[0].StartDate)
	assert.Equal(t, "OTA", resp.Blocks[0].LockSource)

	from, to := day(t, "2025-03-15"), day(t, "2025-05-01")
	resp, err = service.List(ctx, unit.ID, &from, &to)
	require.NoError(t, err)
	require.Len(t, resp.Blocks, 1)
	assert.Equal(t, "2025-04-01", resp.Blocks[0].StartDate)

	_, err = service.List(ctx, 999, nil, nil)
	assert.ErrorIs(t, err, domain.ErrUnitNotFound)
}
