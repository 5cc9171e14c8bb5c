package degreeform

import (
	"context"
	"errors"
	"time"

	"github.com/praveshhq/pravesh/core"
)

var (
	// errors
	ErrNotFound       = errors.New("degree form not found")
	ErrTitleExists    = errors.New("a form with the same title already exists")
	ErrWindowInverted = errors.New("starting date of the form cannot be after the last date")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		// CheckTitleUniqueness fails with ErrTitleExists on a
		// case-insensitive title collision outside excludedIDs.
		CheckTitleUniqueness(ctx context.Context, title string, excludedIDs ...string) error
		CreateForm(ctx context.Context, form DegreeForm) (DegreeForm, error)
		GetFormByID(ctx context.Context, id string) (DegreeForm, error)
		QueryAllForms(ctx context.Context) ([]DegreeForm, error)
		UpdateForm(ctx context.Context, form DegreeForm) (DegreeForm, error)
		// DeleteFormCascade removes the form and every submission referencing
		// it as a single atomic unit.
		DeleteFormCascade(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
		conf *core.Config
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, conf: conf}
}

func (svc *Service) Create(ctx context.Context, creatorID string, nf NewDegreeForm) (DegreeForm, error) {
	if err := nf.Validate(); err != nil {
		return DegreeForm{}, err
	}
	activeFrom, lastDate, err := nf.Window(svc.conf.CivilTZ())
	if err != nil {
		return DegreeForm{}, err
	}
	if err = svc.repo.CheckTitleUniqueness(ctx, nf.Title); err != nil {
		return DegreeForm{}, err
	}

	now := NowFunc().UTC()
	form := DegreeForm{
		Title:       nf.Title,
		Description: nf.Description,
		CreatedBy:   creatorID,
		ActiveFrom:  activeFrom,
		LastDate:    lastDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateForm(ctx, form)
}

func (svc *Service) Update(ctx context.Context, id string, nf NewDegreeForm) (DegreeForm, error) {
	form, err := svc.repo.GetFormByID(ctx, id)
	if err != nil {
		return DegreeForm{}, err
	}

	if err = nf.Validate(); err != nil {
		return DegreeForm{}, err
	}
	activeFrom, lastDate, err := nf.Window(svc.conf.CivilTZ())
	if err != nil {
		return DegreeForm{}, err
	}
	if err = svc.repo.CheckTitleUniqueness(ctx, nf.Title, form.ID); err != nil {
		return DegreeForm{}, err
	}

	form.Title = nf.Title
	form.Description = nf.Description
	form.ActiveFrom = activeFrom
	form.LastDate = lastDate
	form.UpdatedAt = NowFunc().UTC()
	return svc.repo.UpdateForm(ctx, form)
}

// Delete removes the form and cascades to its submissions; no orphaned
// submissions survive.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if _, err := svc.repo.GetFormByID(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteFormCascade(ctx, id)
}

func (svc *Service) Get(ctx context.Context, id string) (DegreeForm, error) {
	return svc.repo.GetFormByID(ctx, id)
}

func (svc *Service) List(ctx context.Context) ([]DegreeForm, error) {
	return svc.repo.QueryAllForms(ctx)
}
