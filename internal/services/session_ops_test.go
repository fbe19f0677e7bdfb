package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridepulse/internal/dashboard"
	"ridepulse/internal/session"
	"ridepulse/pkg/contracts/domain"
)

func TestSessionOps_Lifecycle(t *testing.T) {
	f := newServiceFixture(t, true)
	ctx := context.Background()

	state, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ViewOverview, state.ActiveView)
	assert.Equal(t, int64(1), f.counter(t, "sessions_active"))

	vm, err := f.svc.RenderSession(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ViewOverview, vm.View)
	assert.Equal(t, 6, vm.RowCount)

	state, err = f.svc.SelectView(ctx, state.ID, "vehicle type")
	require.NoError(t, err)
	assert.Equal(t, domain.ViewVehicleType, state.ActiveView)

	state, err = f.svc.SetFilters(ctx, state.ID, "", domain.Filters{
		Start: domain.MustParseDate("2024-02-01"),
		End:   domain.MustParseDate("2024-02-29"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", state.FiltersFor(domain.ViewVehicleType).Start.String())

	vm, err = f.svc.RenderSession(ctx, state.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ViewVehicleType, vm.View)
	assert.Equal(t, 2, vm.RowCount)

	state, err = f.svc.ResetFilters(ctx, state.ID)
	require.NoError(t, err)
	assert.True(t, state.FiltersFor(domain.ViewVehicleType).Start.IsZero())

	require.NoError(t, f.svc.EndSession(ctx, state.ID))
	assert.Equal(t, int64(0), f.counter(t, "sessions_active"))

	_, err = f.svc.Session(ctx, state.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionOps_FiltersAreKeptPerView(t *testing.T) {
	f := newServiceFixture(t, true)
	ctx := context.Background()

	state, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	_, err = f.svc.SetFilters(ctx, state.ID, domain.ViewOverview, domain.Filters{VehicleType: "auto"})
	require.NoError(t, err)

	_, err = f.svc.SelectView(ctx, state.ID, "RATINGS")
	require.NoError(t, err)
	state, err = f.svc.SelectView(ctx, state.ID, "overall")
	require.NoError(t, err)

	assert.Equal(t, domain.ViewOverview, state.ActiveView)
	assert.Equal(t, "auto", state.FiltersFor(domain.ViewOverview).VehicleType)
	assert.Equal(t, dashboard.RenderState{
		View:    domain.ViewOverview,
		Filters: domain.Filters{VehicleType: "auto"},
	}, SessionRenderState(state))
}

func TestSessionOps_Rejections(t *testing.T) {
	f := newServiceFixture(t, true)
	ctx := context.Background()

	state, err := f.svc.CreateSession(ctx)
	require.NoError(t, err)

	t.Run("unknown view leaves session unchanged", func(t *testing.T) {
		_, err := f.svc.SelectView(ctx, state.ID, "DRIVERS")
		assert.ErrorIs(t, err, session.ErrUnknownView)

		current, err := f.svc.Session(ctx, state.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ViewOverview, current.ActiveView)
	})

	t.Run("categorical filter on a date-only view", func(t *testing.T) {
		_, err := f.svc.SetFilters(ctx, state.ID, domain.ViewCancellation, domain.Filters{VehicleType: "bike"})
		assert.ErrorIs(t, err, dashboard.ErrFilterNotSupported)

		current, err := f.svc.Session(ctx, state.ID)
		require.NoError(t, err)
		assert.Empty(t, current.Filters)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := f.svc.RenderSession(ctx, "nope")
		assert.ErrorIs(t, err, session.ErrSessionNotFound)

		assert.ErrorIs(t, f.svc.EndSession(ctx, "nope"), session.ErrSessionNotFound)
	})
}

func TestSessionOps_Capacity(t *testing.T) {
	f := newServiceFixture(t, true)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := f.svc.CreateSession(ctx)
		require.NoError(t, err)
	}

	_, err := f.svc.CreateSession(ctx)
	assert.ErrorIs(t, err, session.ErrTooManySessions)
	assert.Equal(t, int64(10), f.counter(t, "sessions_active"))
}
