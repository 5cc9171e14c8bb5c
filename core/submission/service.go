package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/praveshhq/pravesh/core"
	"github.com/praveshhq/pravesh/core/degreeform"
	"github.com/praveshhq/pravesh/core/user"
)

var (
	// errors
	ErrNotFound  = errors.New("submission form not found")
	ErrForbidden = errors.New("unauthorized access")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		GetSubmissionByUserAndForm(ctx context.Context, userID, formID string) (Submission, error)
		QuerySubmissionsByUser(ctx context.Context, userID string) ([]Submission, error)
		QuerySubmissionsByForm(ctx context.Context, formID string) ([]Submission, error)
		UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
	}

	Service struct {
		repo   Repository
		forms  degreeform.Repository
		files  core.FileStore
		logger core.Logger
	}
)

func NewService(repo Repository, forms degreeform.Repository, files core.FileStore, logger core.Logger) *Service {
	return &Service{repo: repo, forms: forms, files: files, logger: logger}
}

// Submit creates the one-and-only submission of requester for formID.
// Mandatory document uploads run concurrently and any failure among them
// aborts the whole operation; a failed optional upload is dropped silently.
// Nothing is persisted on abort.
func (svc *Service) Submit(ctx context.Context, requester user.User, formID string, det Details, uploads []DocumentUpload) (Submission, error) {
	form, err := svc.requireActive(ctx, formID)
	if err != nil {
		return Submission{}, err
	}
	if err = svc.requireSubmissionAbsent(ctx, form.ID, requester.ID); err != nil {
		return Submission{}, err
	}
	if err = det.Validate(); err != nil {
		return Submission{}, err
	}
	if err = checkRequiredUploads(uploads); err != nil {
		return Submission{}, err
	}
	for i := range uploads {
		uploads[i].Required = slotRequired(uploads[i].Slot)
	}

	urls, err := svc.uploadDocuments(ctx, requester.ID, uploads)
	if err != nil {
		return Submission{}, err
	}
	var docs Documents
	for slot, url := range urls {
		docs.Set(slot, url)
	}

	now := NowFunc().UTC()
	sub := Submission{
		DegreeFormID:          form.ID,
		UserID:                requester.ID,
		DegreeFormTitle:       form.Title,
		DegreeFormDescription: form.Description,
		PersonalDetails:       det.PersonalDetails,
		EducationalDetails:    det.EducationalDetails,
		Documents:             docs,
		BranchPreferences:     det.BranchPreferences,
		SubmittedAt:           now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	return svc.repo.CreateSubmission(ctx, sub)
}

// GetOwned returns the submission if requester owns it or is an admin.
func (svc *Service) GetOwned(ctx context.Context, requester user.User, id string) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if sub.UserID != requester.ID && !requester.IsAdmin() {
		return Submission{}, ErrForbidden
	}
	return sub, nil
}

func (svc *Service) ListForUser(ctx context.Context, userID string) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByUser(ctx, userID)
}

// UpdateDetails replaces the three detail blocks wholesale (owner only,
// while the form is active) and refreshes submittedAt.
func (svc *Service) UpdateDetails(ctx context.Context, requester user.User, id string, det Details) (Submission, error) {
	sub, err := svc.ownedForEdit(ctx, requester, id)
	if err != nil {
		return Submission{}, err
	}
	if err = det.Validate(); err != nil {
		return Submission{}, err
	}

	now := NowFunc().UTC()
	sub.PersonalDetails = det.PersonalDetails
	sub.EducationalDetails = det.EducationalDetails
	sub.BranchPreferences = det.BranchPreferences
	sub.SubmittedAt = now
	sub.UpdatedAt = now
	return svc.repo.UpdateSubmission(ctx, sub)
}

// UpdateDocuments re-uploads the provided slots (owner only, while the form
// is active). Every slot is optional here; slots without a new upload, and
// slots whose upload failed, retain their previous URL.
func (svc *Service) UpdateDocuments(ctx context.Context, requester user.User, id string, uploads []DocumentUpload) (Submission, error) {
	sub, err := svc.ownedForEdit(ctx, requester, id)
	if err != nil {
		return Submission{}, err
	}
	if err = checkKnownSlots(uploads); err != nil {
		return Submission{}, err
	}

	// all slots are soft on update
	for i := range uploads {
		uploads[i].Required = false
	}
	urls, err := svc.uploadDocuments(ctx, requester.ID, uploads)
	if err != nil {
		return Submission{}, err
	}

	now := NowFunc().UTC()
	for slot, url := range urls {
		sub.Documents.Set(slot, url)
	}
	sub.SubmittedAt = now
	sub.UpdatedAt = now
	return svc.repo.UpdateSubmission(ctx, sub)
}

// ownedForEdit loads the submission, checks strict ownership (admins may
// view but not edit) and that the owning form's window is still open.
func (svc *Service) ownedForEdit(ctx context.Context, requester user.User, id string) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return Submission{}, err
	}
	if sub.UserID != requester.ID {
		return Submission{}, ErrForbidden
	}
	if _, err = svc.requireActive(ctx, sub.DegreeFormID); err != nil {
		return Submission{}, err
	}
	if _, err = svc.requireSubmissionPresent(ctx, sub.DegreeFormID, requester.ID); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

type uploadResult struct {
	slot     string
	url      string
	required bool
	err      error
}

// uploadDocuments fans the uploads out to the file store and joins them,
// failing fast on the first mandatory-slot rejection. Optional-slot failures
// are logged and nulled out.
func (svc *Service) uploadDocuments(ctx context.Context, ownerKey string, uploads []DocumentUpload) (map[string]string, error) {
	if len(uploads) == 0 {
		return map[string]string{}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan uploadResult, len(uploads))
	for _, up := range uploads {
		up := up
		go func() {
			url, err := svc.files.Upload(ctx, up.LocalPath, ownerKey, up.Slot)
			results <- uploadResult{slot: up.Slot, url: url, required: up.Required, err: err}
		}()
	}

	urls := make(map[string]string, len(uploads))
	var hardErr error
	for range uploads {
		res := <-results
		if res.err != nil {
			if res.required {
				if hardErr == nil {
					hardErr = pkgerrors.Wrapf(res.err, "uploading %s", res.slot)
					cancel() // abort the in-flight siblings
				}
			} else {
				svc.logger.Warn(fmt.Sprintf("optional document %q upload failed: %v", res.slot, res.err))
			}
			continue
		}
		urls[res.slot] = res.url
	}
	if hardErr != nil {
		return nil, hardErr
	}
	return urls, nil
}

// checkRequiredUploads enforces the submission-time document set: the five
// mandatory slots must be present, and no unknown slot is accepted.
func checkRequiredUploads(uploads []DocumentUpload) error {
	if err := checkKnownSlots(uploads); err != nil {
		return err
	}
	provided := make(map[string]bool, len(uploads))
	for _, up := range uploads {
		provided[up.Slot] = true
	}
	for _, ds := range DocumentSlots {
		if ds.Required && !provided[ds.Slot] {
			err := fmt.Errorf("required document missing: %s", ds.Slot)
			return core.NewValidationError(err, core.FieldError{Field: ds.Slot, Error: err.Error()})
		}
	}
	return nil
}

func slotRequired(slot string) bool {
	for _, ds := range DocumentSlots {
		if ds.Slot == slot {
			return ds.Required
		}
	}
	return false
}

func checkKnownSlots(uploads []DocumentUpload) error {
	for _, up := range uploads {
		known := false
		for _, ds := range DocumentSlots {
			if up.Slot == ds.Slot {
				known = true
				break
			}
		}
		if !known {
			err := fmt.Errorf("unknown document slot: %s", up.Slot)
			return core.NewValidationError(err, core.FieldError{Field: up.Slot, Error: err.Error()})
		}
	}
	return nil
}
