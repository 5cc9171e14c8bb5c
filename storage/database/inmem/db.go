// Package inmemdb provides map-backed repositories for tests and local
// experiments. Not meant for production use.
package inmemdb

import (
	"sync"

	"github.com/praveshhq/pravesh/core/degreeform"
	"github.com/praveshhq/pravesh/core/submission"
	"github.com/praveshhq/pravesh/core/user"
)

type DB struct {
	user       *userTable
	degreeForm *degreeFormTable
	submission *submissionTable
}

type (
	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}
	degreeFormTable struct {
		mutex sync.RWMutex
		table map[string]*degreeform.DegreeForm
	}
	submissionTable struct {
		mutex sync.RWMutex
		table map[string]*submission.Submission
	}
)

func NewDB() *DB {
	return &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		degreeForm: &degreeFormTable{table: make(map[string]*degreeform.DegreeForm)},
		submission: &submissionTable{table: make(map[string]*submission.Submission)},
	}
}
