package inmemdb

import (
	"github.com/trezcool/shusseki/core/attendance"
)

type classRepository struct {
	db *classTable
}

var _ attendance.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) attendance.Repository {
	return &classRepository{db: db.class}
}

func (repo *classRepository) QueryAllClasses() ([]attendance.ClassData, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return attendance.CloneClasses(repo.db.rows), nil
}

func (repo *classRepository) GetClassByID(id string) (attendance.ClassData, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cls := range repo.db.rows {
		if cls.ID == id {
			return cls.Clone(), nil
		}
	}
	return attendance.ClassData{}, attendance.ErrClassNotFound
}

// UpdateClasses hands a deep copy of the table to `fn` and swaps in its result.
// The stored rows are never mutated in place.
func (repo *classRepository) UpdateClasses(fn func([]attendance.ClassData) ([]attendance.ClassData, error)) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	rows, err := fn(attendance.CloneClasses(repo.db.rows))
	if err != nil {
		return err
	}
	if rows == nil {
		rows = make([]attendance.ClassData, 0)
	}
	repo.db.rows = rows
	return nil
}
