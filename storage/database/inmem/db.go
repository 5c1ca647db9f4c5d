package inmemdb

import (
	"sync"

	"github.com/trezcool/shusseki/core/attendance"
)

type (
	DB struct {
		class *classTable
	}

	// classTable keeps the ordered class list; the order is meaningful
	// (first class is the selection fallback).
	classTable struct {
		sync.RWMutex
		rows []attendance.ClassData
	}
)

func Open() (*DB, error) {
	db := &DB{
		class: &classTable{rows: make([]attendance.ClassData, 0)},
	}
	return db, nil
}
