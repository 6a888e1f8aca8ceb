package mirror_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/storefront/internal/mirror"
)

type stubCartAPI struct {
	fetchLines []mirror.Line
	fetchErr   error
	addErr     error
	removeErr  error

	fetchCalls  int
	addCalls    int
	removeCalls int
	removedIDs  []string
}

func (s *stubCartAPI) Fetch(credential string) ([]mirror.Line, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return append([]mirror.Line(nil), s.fetchLines...), nil
}

func (s *stubCartAPI) Add(credential, productName string, unitPrice float64, quantity int32) (mirror.Line, error) {
	s.addCalls++
	if s.addErr != nil {
		return mirror.Line{}, s.addErr
	}
	return mirror.Line{ID: "srv-1", ProductName: productName, UnitPrice: unitPrice, Quantity: quantity}, nil
}

func (s *stubCartAPI) Remove(credential, lineID string) error {
	s.removeCalls++
	s.removedIDs = append(s.removedIDs, lineID)
	return s.removeErr
}

func TestReconcileWipesOnLogout(t *testing.T) {
	api := &stubCartAPI{}
	m := mirror.New(api)

	m.Add("Tee", 300, 1)
	require.Len(t, m.Lines(), 1)

	require.NoError(t, m.Reconcile(""))

	assert.Empty(t, m.Lines())
	assert.False(t, m.Authenticated())
	assert.Zero(t, api.fetchCalls, "logout must not hit the server")
}

func TestReconcileOverwritesOnLogin(t *testing.T) {
	api := &stubCartAPI{
		fetchLines: []mirror.Line{
			{ID: "srv-1", ProductName: "Mug", UnitPrice: 150, Quantity: 2},
		},
	}
	m := mirror.New(api)

	// Гостевая позиция не переживает логин: последний fetch побеждает.
	m.Add("Tee", 300, 1)

	require.NoError(t, m.Reconcile("token"))

	lines := m.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Mug", lines[0].ProductName)
	assert.True(t, m.Authenticated())
}

func TestReconcileFetchErrorKeepsLocalState(t *testing.T) {
	api := &stubCartAPI{fetchErr: errors.New("server down")}
	m := mirror.New(api)

	m.Add("Tee", 300, 1)
	require.Error(t, m.Reconcile("token"))

	assert.Len(t, m.Lines(), 1)
}

func TestGuestAddIncrementsByOne(t *testing.T) {
	m := mirror.New(&stubCartAPI{})

	first := m.Add("Tee", 300, 1)
	second := m.Add("Tee", 300, 5)

	assert.Equal(t, first.ID, second.ID)
	assert.EqualValues(t, 2, second.Quantity)
	require.Len(t, m.Lines(), 1)
}

func TestAuthenticatedAddGoesServerFirst(t *testing.T) {
	api := &stubCartAPI{}
	m := mirror.New(api)
	require.NoError(t, m.Reconcile("token"))

	line := m.Add("Tee", 300, 1)

	assert.Equal(t, 1, api.addCalls)
	assert.Equal(t, "srv-1", line.ID)
	require.Len(t, m.Lines(), 1)
}

func TestAddFallsBackToLocalOnServerError(t *testing.T) {
	api := &stubCartAPI{addErr: errors.New("server down")}
	m := mirror.New(api)
	require.NoError(t, m.Reconcile("token"))

	line := m.Add("Tee", 300, 1)

	assert.Equal(t, 1, api.addCalls)
	assert.Contains(t, line.ID, "local-")
	require.Len(t, m.Lines(), 1)
}

func TestRemoveGoesServerFirstAndDropsLocally(t *testing.T) {
	api := &stubCartAPI{}
	m := mirror.New(api)
	require.NoError(t, m.Reconcile("token"))

	line := m.Add("Tee", 300, 1)
	m.Remove(line.ID)

	assert.Equal(t, 1, api.removeCalls)
	assert.Equal(t, []string{line.ID}, api.removedIDs)
	assert.Empty(t, m.Lines())
}
