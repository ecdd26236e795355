package person

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	d := NewDirectory()

	p, err := d.Create(context.Background(), CreateInput{
		FirstName: "  Ahmet ",
		LastName:  "Yilmaz",
		Email:     "ahmet.yilmaz@email.com",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Ahmet Yilmaz", p.FullName())

	got, err := d.Person(context.Background(), 1)
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestCreateRequiresName(t *testing.T) {
	d := NewDirectory()

	_, err := d.Create(context.Background(), CreateInput{LastName: "Yilmaz"})
	require.Error(t, err)

	_, err = d.Create(context.Background(), CreateInput{FirstName: "Ahmet"})
	require.Error(t, err)
}

func TestCreateDuplicateEmail(t *testing.T) {
	d := NewDirectory()

	_, err := d.Create(context.Background(), CreateInput{FirstName: "Ahmet", LastName: "Yilmaz", Email: "a@email.com"})
	require.NoError(t, err)

	_, err = d.Create(context.Background(), CreateInput{FirstName: "Fatma", LastName: "Kaya", Email: "A@EMAIL.com"})
	require.ErrorIs(t, err, ErrDuplicateEmail)

	// People without an email never collide.
	_, err = d.Create(context.Background(), CreateInput{FirstName: "Fatma", LastName: "Kaya"})
	require.NoError(t, err)
}

func TestAddKeepsIDsAboveSeeded(t *testing.T) {
	d := NewDirectory()
	d.Add(&Person{ID: 6, FirstName: "Emily", LastName: "Johnson"})

	p, err := d.Create(context.Background(), CreateInput{FirstName: "Mehmet", LastName: "Demir"})
	require.NoError(t, err)
	assert.Equal(t, 7, p.ID)
}

func TestPersonNotFound(t *testing.T) {
	d := NewDirectory()

	_, err := d.Person(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAllKeepsInsertionOrder(t *testing.T) {
	d := NewDirectory()
	d.Add(&Person{ID: 2, FirstName: "B", LastName: "B"})
	d.Add(&Person{ID: 1, FirstName: "A", LastName: "A"})

	all, err := d.All(context.Background())
	require.NoError(t, err)

	require.Len(t, all, 2)
	assert.Equal(t, 2, all[0].ID)
	assert.Equal(t, 1, all[1].ID)
}
