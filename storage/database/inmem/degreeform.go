package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/praveshhq/pravesh/core/degreeform"
)

type degreeFormRepository struct {
	db   *degreeFormTable
	subs *submissionTable
}

func NewDegreeFormRepository(db *DB) degreeform.Repository {
	return &degreeFormRepository{db: db.degreeForm, subs: db.submission}
}

func (repo *degreeFormRepository) CheckTitleUniqueness(ctx context.Context, title string, excludedIDs ...string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, form := range repo.db.table {
		if !strings.EqualFold(form.Title, title) {
			continue
		}
		excluded := false
		for _, id := range excludedIDs {
			if form.ID == id {
				excluded = true
				break
			}
		}
		if !excluded {
			return degreeform.ErrTitleExists
		}
	}
	return nil
}

func (repo *degreeFormRepository) CreateForm(ctx context.Context, form degreeform.DegreeForm) (degreeform.DegreeForm, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	form.ID = uuid.New().String()
	repo.db.table[form.ID] = &form
	return form, nil
}

func (repo *degreeFormRepository) GetFormByID(ctx context.Context, id string) (degreeform.DegreeForm, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if form, ok := repo.db.table[id]; ok {
		return *form, nil
	}
	return degreeform.DegreeForm{}, degreeform.ErrNotFound
}

func (repo *degreeFormRepository) QueryAllForms(ctx context.Context) ([]degreeform.DegreeForm, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	forms := make([]degreeform.DegreeForm, 0, len(repo.db.table))
	for _, form := range repo.db.table {
		forms = append(forms, *form)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].ActiveFrom.Before(forms[j].ActiveFrom) })
	return forms, nil
}

func (repo *degreeFormRepository) UpdateForm(ctx context.Context, form degreeform.DegreeForm) (degreeform.DegreeForm, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[form.ID]; !ok {
		return degreeform.DegreeForm{}, degreeform.ErrNotFound
	}
	repo.db.table[form.ID] = &form
	return form, nil
}

func (repo *degreeFormRepository) DeleteFormCascade(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.subs.mutex.Lock()
	defer repo.subs.mutex.Unlock()

	for subID, sub := range repo.subs.table {
		if sub.DegreeFormID == id {
			delete(repo.subs.table, subID)
		}
	}
	delete(repo.db.table, id)
	return nil
}
