package viewstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpy/internal/directory/models"
	dErrors "helpy/pkg/domain-errors"
)

func TestMachineHappyPath(t *testing.T) {
	m := NewMachine()
	assert.Equal(t, PhaseIdle, m.State().Phase)

	require.NoError(t, m.Start())
	assert.Equal(t, PhaseLoading, m.State().Phase)

	require.NoError(t, m.Loaded(models.OriginRemote, ""))
	assert.Equal(t, PhaseLoaded, m.State().Phase)
	assert.Equal(t, models.OriginRemote, m.State().Origin)
	assert.Empty(t, m.State().Warning)
}

func TestMachineFallbackIsLoadedNotFailed(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Start())
	require.NoError(t, m.Loaded(models.OriginFallback, "remote store unreachable"))

	st := m.State()
	assert.Equal(t, PhaseLoaded, st.Phase)
	assert.Equal(t, models.OriginFallback, st.Origin)
	assert.Equal(t, "remote store unreachable", st.Warning)
}

func TestMachineNotFound(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Start())
	require.NoError(t, m.NotFound())
	assert.Equal(t, PhaseNotFound, m.State().Phase)
}

func TestMachineRefreshRestartsCycle(t *testing.T) {
	m := NewMachine()
	require.NoError(t, m.Start())
	require.NoError(t, m.Fail("context canceled"))
	assert.Equal(t, "context canceled", m.State().Reason)

	require.NoError(t, m.Start())
	st := m.State()
	assert.Equal(t, PhaseLoading, st.Phase)
	assert.Empty(t, st.Reason, "restart clears the previous outcome")
}

func TestMachineRejectsIllegalTransitions(t *testing.T) {
	m := NewMachine()
	assert.Error(t, m.Loaded(models.OriginRemote, ""), "cannot load before starting")
	assert.Error(t, m.NotFound(), "cannot resolve before starting")

	require.NoError(t, m.Start())
	assert.Error(t, m.Start(), "loading is not restartable mid-flight")

	require.NoError(t, m.Loaded(models.OriginRemote, ""))
	assert.Error(t, m.Fail("late failure"), "outcome is final until restarted")
}

func TestForList(t *testing.T) {
	st := ForList(models.OriginFallback, "remote store unreachable")
	assert.Equal(t, PhaseLoaded, st.Phase)
	assert.Equal(t, models.OriginFallback, st.Origin)
	assert.Equal(t, "remote store unreachable", st.Warning)
}

func TestForOne(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		st := ForOne(models.OriginRemote, "", nil)
		assert.Equal(t, PhaseLoaded, st.Phase)
		assert.Equal(t, models.OriginRemote, st.Origin)
	})

	t.Run("not found", func(t *testing.T) {
		st := ForOne("", "", dErrors.New(dErrors.CodeNotFound, "no such record"))
		assert.Equal(t, PhaseNotFound, st.Phase)
	})

	t.Run("unabsorbable failure", func(t *testing.T) {
		st := ForOne("", "", dErrors.New(dErrors.CodeInternal, "context canceled"))
		assert.Equal(t, PhaseFailed, st.Phase)
		assert.Equal(t, "context canceled", st.Reason)
	})
}
