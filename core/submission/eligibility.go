package submission

import (
	"context"
	"errors"
	"time"

	"github.com/praveshhq/pravesh/core/degreeform"
)

var (
	// eligibility errors
	ErrFormNotActive    = errors.New("form is not active")
	ErrSubmissionClosed = errors.New("form submission is closed")
	ErrAlreadySubmitted = errors.New("you have already submitted this form")
	ErrNotSubmitted     = errors.New("you have not submitted this form")
)

// FormState is the eligibility state of a (form, user) pair at a point in time.
type FormState int

const (
	NotYetActive FormState = iota
	ActiveNoSubmission
	ActiveSubmitted
	Closed
)

func (s FormState) String() string {
	switch s {
	case NotYetActive:
		return "NOT_YET_ACTIVE"
	case ActiveNoSubmission:
		return "ACTIVE_NO_SUBMISSION"
	case ActiveSubmitted:
		return "ACTIVE_SUBMITTED"
	case Closed:
		return "CLOSED"
	}
	return "UNKNOWN"
}

// StateFor derives the eligibility state from the form window, submission
// existence and the wall clock. The window is inclusive on both ends.
func StateFor(form degreeform.DegreeForm, hasSubmission bool, now time.Time) FormState {
	switch {
	case now.Before(form.ActiveFrom):
		return NotYetActive
	case now.After(form.LastDate):
		return Closed
	case hasSubmission:
		return ActiveSubmitted
	}
	return ActiveNoSubmission
}

// Guard combinators consumed by the Service operations. Ownership and role
// checks are a separate concern layered on top.

// requireActive resolves the form and rejects unless its window is open now.
func (svc *Service) requireActive(ctx context.Context, formID string) (degreeform.DegreeForm, error) {
	form, err := svc.forms.GetFormByID(ctx, formID)
	if err != nil {
		return degreeform.DegreeForm{}, err
	}
	switch StateFor(form, false, NowFunc()) {
	case NotYetActive:
		return degreeform.DegreeForm{}, ErrFormNotActive
	case Closed:
		return degreeform.DegreeForm{}, ErrSubmissionClosed
	}
	return form, nil
}

func (svc *Service) requireSubmissionAbsent(ctx context.Context, formID, userID string) error {
	if _, err := svc.repo.GetSubmissionByUserAndForm(ctx, userID, formID); err == nil {
		return ErrAlreadySubmitted
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

func (svc *Service) requireSubmissionPresent(ctx context.Context, formID, userID string) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByUserAndForm(ctx, userID, formID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Submission{}, ErrNotSubmitted
		}
		return Submission{}, err
	}
	return sub, nil
}

// EligibleForm resolves a form for an applicant about to apply: the window
// must be open and no prior submission may exist.
func (svc *Service) EligibleForm(ctx context.Context, userID, formID string) (degreeform.DegreeForm, error) {
	form, err := svc.requireActive(ctx, formID)
	if err != nil {
		return degreeform.DegreeForm{}, err
	}
	if err = svc.requireSubmissionAbsent(ctx, form.ID, userID); err != nil {
		return degreeform.DegreeForm{}, err
	}
	return form, nil
}
