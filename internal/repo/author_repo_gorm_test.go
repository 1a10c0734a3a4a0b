package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gorm-library/internal/domain"
)

func TestAuthorRepo_Create(t *testing.T) {
	s := setupStore(t)

	a, err := s.Authors.Create(ctx, "Fyodor", "Dostoevsky", ptr("Mikhailovich"))
	require.NoError(t, err)
	require.NotZero(t, a.ID)

	got, err := s.Authors.FindByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Fyodor", got.Name)
	assert.Equal(t, "Dostoevsky", got.Surname)
	assert.Equal(t, "Mikhailovich", *got.Patronymic)
}

func TestAuthorRepo_Create_Defaults(t *testing.T) {
	s := setupStore(t)

	a, err := s.Authors.Create(ctx, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", a.Name)
	assert.Equal(t, "Unknown", a.Surname)

	got, err := s.Authors.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", got.Name)
	assert.Equal(t, "Unknown", got.Surname)
	assert.Nil(t, got.Patronymic)
}

func TestAuthorRepo_FindByID_NotFound(t *testing.T) {
	s := setupStore(t)

	a, err := s.Authors.FindByID(ctx, 7)
	assert.NoError(t, err)
	assert.Nil(t, a)
}

func TestAuthorRepo_Update(t *testing.T) {
	s := setupStore(t)

	a, err := s.Authors.Create(ctx, "Lev", "Tolstoy", nil)
	require.NoError(t, err)

	require.NoError(t, s.Authors.Update(ctx, a, domain.AuthorPatch{Patronymic: ptr("Nikolayevich")}))

	got, err := s.Authors.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lev", got.Name)
	assert.Equal(t, "Tolstoy", got.Surname)
	assert.Equal(t, "Nikolayevich", *got.Patronymic)

	require.NoError(t, s.Authors.Update(ctx, got, domain.AuthorPatch{}))
	same, err := s.Authors.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, got.ToDict(), same.ToDict())
}

func TestAuthorRepo_DeleteByID(t *testing.T) {
	s := setupStore(t)

	keep, err := s.Authors.Create(ctx, "Arkady", "Strugatsky", nil)
	require.NoError(t, err)
	drop, err := s.Authors.Create(ctx, "Boris", "Strugatsky", nil)
	require.NoError(t, err)
	book, err := s.Books.Create(ctx, "Roadside Picnic", "", 2, keep, drop)
	require.NoError(t, err)

	ok, err := s.Authors.DeleteByID(ctx, drop.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	gone, err := s.Authors.FindByID(ctx, drop.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	got, err := s.Books.FindByID(ctx, book.ID)
	require.NoError(t, err)
	require.Len(t, got.Authors, 1)
	assert.Equal(t, keep.ID, got.Authors[0].ID)

	again, err := s.Authors.DeleteByID(ctx, drop.ID)
	require.NoError(t, err)
	assert.False(t, again)
}

func TestAuthorRepo_List(t *testing.T) {
	s := setupStore(t)

	authors, err := s.Authors.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, authors)

	_, err = s.Authors.Create(ctx, "Ursula", "Le Guin", nil)
	require.NoError(t, err)
	_, err = s.Authors.Create(ctx, "Stanislaw", "Lem", nil)
	require.NoError(t, err)

	authors, err = s.Authors.List(ctx)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	assert.Equal(t, "Ursula", authors[0].Name)
	assert.Equal(t, "Lem", authors[1].Surname)
}
