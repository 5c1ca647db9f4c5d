package inmemdb

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shusseki/core/attendance"
)

func newRepo(t *testing.T) attendance.Repository {
	db, err := Open()
	require.NoError(t, err)
	return NewClassRepository(db)
}

func TestClassRepository(t *testing.T) {
	repo := newRepo(t)

	classes, err := repo.QueryAllClasses()
	require.NoError(t, err)
	assert.Empty(t, classes)

	_, err = repo.GetClassByID("class-A")
	assert.Equal(t, attendance.ErrClassNotFound, err)

	err = repo.UpdateClasses(func(classes []attendance.ClassData) ([]attendance.ClassData, error) {
		return append(classes,
			attendance.ClassData{ID: "class-A", Name: "A組", Students: []attendance.Student{{ID: "s1", Name: "田中"}}},
			attendance.ClassData{ID: "class-B", Name: "B組"},
		), nil
	})
	require.NoError(t, err)

	cls, err := repo.GetClassByID("class-A")
	require.NoError(t, err)
	assert.Equal(t, "A組", cls.Name)

	// returned values are copies
	cls.Students[0].Name = "changed"
	stored, err := repo.GetClassByID("class-A")
	require.NoError(t, err)
	assert.Equal(t, "田中", stored.Students[0].Name)

	classes, err = repo.QueryAllClasses()
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "class-B", classes[1].ID)
}

func TestClassRepository_UpdateClasses_Atomic(t *testing.T) {
	repo := newRepo(t)
	require.NoError(t, repo.UpdateClasses(func([]attendance.ClassData) ([]attendance.ClassData, error) {
		return []attendance.ClassData{{ID: "class-A", Name: "A組"}}, nil
	}))

	boom := errors.New("boom")
	err := repo.UpdateClasses(func(classes []attendance.ClassData) ([]attendance.ClassData, error) {
		classes[0].Name = "half-done"
		return nil, boom
	})
	assert.Equal(t, boom, err)

	cls, err := repo.GetClassByID("class-A")
	require.NoError(t, err)
	assert.Equal(t, "A組", cls.Name)

	require.NoError(t, repo.UpdateClasses(func([]attendance.ClassData) ([]attendance.ClassData, error) {
		return nil, nil
	}))
	classes, err := repo.QueryAllClasses()
	require.NoError(t, err)
	assert.NotNil(t, classes)
	assert.Empty(t, classes)
}
