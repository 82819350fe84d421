package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpy/internal/directory/fallback"
	"helpy/internal/directory/models"
	"helpy/internal/directory/store"
	dErrors "helpy/pkg/domain-errors"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	rows := make([]any, 0, 5)
	for _, a := range fallback.Artisans() {
		rows = append(rows, a)
	}
	require.NoError(t, s.Seed(models.CollectionArtisans, rows...))
	return s
}

func TestSelectOrdering(t *testing.T) {
	s := seededStore(t)

	rows, err := s.Select(context.Background(), models.CollectionArtisans, store.Query{OrderField: "id", OrderDesc: true})
	require.NoError(t, err)
	require.Len(t, rows, 5)

	var first models.Artisan
	require.NoError(t, json.Unmarshal(rows[0], &first))
	assert.Equal(t, 5, first.ID)
}

func TestSelectEqualityFilter(t *testing.T) {
	s := seededStore(t)

	rows, err := s.Select(context.Background(), models.CollectionArtisans, store.Query{
		FilterField: "corps_de_metier",
		FilterValue: "Plombier",
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	var a models.Artisan
	require.NoError(t, json.Unmarshal(rows[0], &a))
	assert.Equal(t, "Petit", a.FamilyName)
}

func TestSelectOne(t *testing.T) {
	s := seededStore(t)

	t.Run("matches numeric ids by string form", func(t *testing.T) {
		row, err := s.SelectOne(context.Background(), models.CollectionArtisans, "3")
		require.NoError(t, err)

		var a models.Artisan
		require.NoError(t, json.Unmarshal(row, &a))
		assert.Equal(t, "Michel", a.GivenName)
	})

	t.Run("absent id returns not_found", func(t *testing.T) {
		_, err := s.SelectOne(context.Background(), models.CollectionArtisans, "999")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestInsertAndUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, models.CollectionProfiles, models.Profile{ID: "u-1", Name: "Before"}))
	require.NoError(t, s.Update(ctx, models.CollectionProfiles, "u-1", map[string]string{"name": "After"}))

	row, err := s.SelectOne(ctx, models.CollectionProfiles, "u-1")
	require.NoError(t, err)

	var p models.Profile
	require.NoError(t, json.Unmarshal(row, &p))
	assert.Equal(t, "After", p.Name)

	err = s.Update(ctx, models.CollectionProfiles, "u-2", map[string]string{"name": "X"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestFailureInjection(t *testing.T) {
	s := seededStore(t)
	outage := dErrors.New(dErrors.CodeRemoteUnavailable, "simulated outage")
	s.FailWith(outage)

	_, err := s.Select(context.Background(), models.CollectionArtisans, store.Query{})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeRemoteUnavailable))

	_, err = s.SelectOne(context.Background(), models.CollectionArtisans, "1")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeRemoteUnavailable))

	s.FailWith(nil)
	_, err = s.SelectOne(context.Background(), models.CollectionArtisans, "1")
	assert.NoError(t, err)
}
