package submission_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveshhq/pravesh/core"
	"github.com/praveshhq/pravesh/core/degreeform"
	"github.com/praveshhq/pravesh/core/submission"
	"github.com/praveshhq/pravesh/core/user"
	inmemdb "github.com/praveshhq/pravesh/storage/database/inmem"
)

type fakeFileStore struct {
	mu       sync.Mutex
	failing  map[string]bool
	uploaded []string
}

func (f *fakeFileStore) Upload(ctx context.Context, localPath, ownerKey, slot string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[slot] {
		return "", errors.New("storage rejected the file")
	}
	f.uploaded = append(f.uploaded, slot)
	return fmt.Sprintf("https://files.test/%s/%s", ownerKey, slot), nil
}

func (f *fakeFileStore) failSlot(slot string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing == nil {
		f.failing = make(map[string]bool)
	}
	f.failing[slot] = true
}

type nopLogger struct{}

func (nopLogger) Enable(bool) {}

func (nopLogger) Debug(string, ...interface{}) {}

func (nopLogger) Info(string, ...interface{}) {}

func (nopLogger) Warn(string, ...interface{}) {}

func (nopLogger) Error(string, ...interface{}) {}

func (nopLogger) Fatal(string, ...interface{}) {}

type submissionEnv struct {
	svc   *submission.Service
	repo  submission.Repository
	forms degreeform.Repository
	files *fakeFileStore
}

func setupSubmission(t *testing.T, now time.Time) *submissionEnv {
	t.Helper()
	submission.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { submission.NowFunc = time.Now })

	db := inmemdb.NewDB()
	env := &submissionEnv{
		repo:  inmemdb.NewSubmissionRepository(db),
		forms: inmemdb.NewDegreeFormRepository(db),
		files: &fakeFileStore{},
	}
	env.svc = submission.NewService(env.repo, env.forms, env.files, nopLogger{})
	return env
}

func (env *submissionEnv) createForm(t *testing.T, activeFrom, lastDate time.Time) degreeform.DegreeForm {
	t.Helper()
	form, err := env.forms.CreateForm(context.Background(), degreeform.DegreeForm{
		Title:       "B.Tech 2024",
		Description: "First-year engineering admissions",
		CreatedBy:   "admin-1",
		ActiveFrom:  activeFrom,
		LastDate:    lastDate,
	})
	require.NoError(t, err)
	return form
}

func (env *submissionEnv) submit(t *testing.T, usr user.User, formID string) submission.Submission {
	t.Helper()
	sub, err := env.svc.Submit(context.Background(), usr, formID, validDetails(), allUploads())
	require.NoError(t, err)
	return sub
}

func applicant(id string) user.User {
	return user.User{ID: id, Name: "Asha Patel", Email: id + "@example.com", Role: user.RoleUser}
}

func admin(id string) user.User {
	return user.User{ID: id, Name: "Dean Office", Email: id + "@example.com", Role: user.RoleAdmin}
}

func validDetails() submission.Details {
	return submission.Details{
		PersonalDetails: submission.PersonalDetails{
			FullName:         "Asha Patel",
			DOB:              time.Date(2006, 3, 14, 0, 0, 0, 0, time.UTC),
			Gender:           "female",
			Email:            "asha@example.com",
			MobileNo:         "9876543210",
			GuardianName:     "Rajesh Patel",
			GuardianMobileNo: "9876500000",
			GuardianEmail:    "rajesh@example.com",
			Address:          "12 MG Road",
			City:             "Surat",
			State:            "Gujarat",
			Pincode:          "395007",
		},
		EducationalDetails: submission.EducationalDetails{
			SSCSchoolName:        "St. Xavier's",
			SSCBoard:             "GSEB",
			SSCPassingYear:       time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC),
			SSCPercentile:        92.5,
			HSCStream:            "Science",
			HSCSchoolName:        "St. Xavier's",
			HSCBoard:             "GSEB",
			HSCPassingYear:       time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
			HSCTotalPercentile:   88.2,
			HSCSciencePercentile: 90.1,
			GujcetRollNo:         "G123456",
			GujcetPassingYear:    time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
			GujcetMarks:          95,
			GujcetPercentile:     87.4,
		},
		BranchPreferences: submission.BranchPreferences{Pref1: "CS", Pref2: "IT"},
	}
}

func allUploads() []submission.DocumentUpload {
	uploads := make([]submission.DocumentUpload, 0, len(submission.DocumentSlots))
	for _, ds := range submission.DocumentSlots {
		uploads = append(uploads, submission.DocumentUpload{Slot: ds.Slot, LocalPath: "/tmp/" + ds.Slot})
	}
	return uploads
}

func requiredUploads() []submission.DocumentUpload {
	var uploads []submission.DocumentUpload
	for _, ds := range submission.DocumentSlots {
		if ds.Required {
			uploads = append(uploads, submission.DocumentUpload{Slot: ds.Slot, LocalPath: "/tmp/" + ds.Slot})
		}
	}
	return uploads
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	window := func(env *submissionEnv) degreeform.DegreeForm {
		return env.createForm(t, now.AddDate(0, 0, -7), now.AddDate(0, 0, 7))
	}

	t.Run("stores details, documents and the form snapshot", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := window(env)

		sub, err := env.svc.Submit(ctx, applicant("user-1"), form.ID, validDetails(), allUploads())
		require.NoError(t, err)

		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, form.Title, sub.DegreeFormTitle)
		assert.Equal(t, now, sub.SubmittedAt)
		assert.Equal(t, "https://files.test/user-1/candidatePhoto", sub.Documents.CandidatePhoto)
		assert.Equal(t, "https://files.test/user-1/leavingCertificate", sub.Documents.LeavingCertificate)
		assert.Equal(t, []string{"CS", "IT"}, sub.BranchPreferences.Chain())
	})

	t.Run("optional document may be omitted", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := window(env)

		sub, err := env.svc.Submit(ctx, applicant("user-1"), form.ID, validDetails(), requiredUploads())
		require.NoError(t, err)
		assert.Empty(t, sub.Documents.LeavingCertificate)
	})

	t.Run("missing required document", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := window(env)

		uploads := requiredUploads()[1:] // drop the photo
		_, err := env.svc.Submit(ctx, applicant("user-1"), form.ID, validDetails(), uploads)

		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, submission.SlotCandidatePhoto, vErr.Fields[0].Field)
	})

	t.Run("unknown slot", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := window(env)

		uploads := append(allUploads(), submission.DocumentUpload{Slot: "resume", LocalPath: "/tmp/resume"})
		_, err := env.svc.Submit(ctx, applicant("user-1"), form.ID, validDetails(), uploads)

		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("second submission on the same form", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := window(env)
		env.submit(t, applicant("user-1"), form.ID)

		_, err := env.svc.Submit(ctx, applicant("user-1"), form.ID, validDetails(), allUploads())
		assert.Equal(t, submission.ErrAlreadySubmitted, err)
	})

	t.Run("required upload failure persists nothing", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := window(env)
		env.files.failSlot(submission.SlotAadharCard)

		_, err := env.svc.Submit(ctx, applicant("user-1"), form.ID, validDetails(), allUploads())
		require.Error(t, err)

		_, err = env.repo.GetSubmissionByUserAndForm(ctx, "user-1", form.ID)
		assert.Equal(t, submission.ErrNotFound, err)
	})

	t.Run("optional upload failure drops only that slot", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := window(env)
		env.files.failSlot(submission.SlotLeavingCertificate)

		sub, err := env.svc.Submit(ctx, applicant("user-1"), form.ID, validDetails(), allUploads())
		require.NoError(t, err)
		assert.Empty(t, sub.Documents.LeavingCertificate)
		assert.NotEmpty(t, sub.Documents.CandidatePhoto)
	})

	t.Run("closed window", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := env.createForm(t, now.AddDate(0, 0, -30), now.AddDate(0, 0, -1))

		_, err := env.svc.Submit(ctx, applicant("user-1"), form.ID, validDetails(), allUploads())
		assert.Equal(t, submission.ErrSubmissionClosed, err)
	})
}

func TestService_GetOwned(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	env := setupSubmission(t, now)
	form := env.createForm(t, now.AddDate(0, 0, -7), now.AddDate(0, 0, 7))
	sub := env.submit(t, applicant("user-1"), form.ID)

	t.Run("owner", func(t *testing.T) {
		got, err := env.svc.GetOwned(ctx, applicant("user-1"), sub.ID)
		require.NoError(t, err)
		assert.Equal(t, sub.ID, got.ID)
	})

	t.Run("admin may view", func(t *testing.T) {
		_, err := env.svc.GetOwned(ctx, admin("admin-1"), sub.ID)
		assert.NoError(t, err)
	})

	t.Run("stranger may not", func(t *testing.T) {
		_, err := env.svc.GetOwned(ctx, applicant("user-2"), sub.ID)
		assert.Equal(t, submission.ErrForbidden, err)
	})
}

func TestService_UpdateDetails(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("replaces the blocks and refreshes submittedAt", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := env.createForm(t, now.AddDate(0, 0, -7), now.AddDate(0, 0, 7))
		sub := env.submit(t, applicant("user-1"), form.ID)

		later := now.Add(2 * time.Hour)
		submission.NowFunc = func() time.Time { return later }

		det := validDetails()
		det.BranchPreferences = submission.BranchPreferences{Pref1: "EC"}
		updated, err := env.svc.UpdateDetails(ctx, applicant("user-1"), sub.ID, det)
		require.NoError(t, err)

		assert.Equal(t, []string{"EC"}, updated.BranchPreferences.Chain())
		assert.Equal(t, later, updated.SubmittedAt)
		assert.Equal(t, sub.Documents, updated.Documents)
	})

	t.Run("admins may not edit someone else's", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := env.createForm(t, now.AddDate(0, 0, -7), now.AddDate(0, 0, 7))
		sub := env.submit(t, applicant("user-1"), form.ID)

		_, err := env.svc.UpdateDetails(ctx, admin("admin-1"), sub.ID, validDetails())
		assert.Equal(t, submission.ErrForbidden, err)
	})

	t.Run("deadline passed", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := env.createForm(t, now.AddDate(0, 0, -7), now.AddDate(0, 0, 7))
		sub := env.submit(t, applicant("user-1"), form.ID)

		submission.NowFunc = func() time.Time { return now.AddDate(0, 0, 8) }

		_, err := env.svc.UpdateDetails(ctx, applicant("user-1"), sub.ID, validDetails())
		assert.Equal(t, submission.ErrSubmissionClosed, err)
	})
}

func TestService_UpdateDocuments(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("untouched slots keep their URL", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := env.createForm(t, now.AddDate(0, 0, -7), now.AddDate(0, 0, 7))
		sub := env.submit(t, applicant("user-2"), form.ID)

		updated, err := env.svc.UpdateDocuments(ctx, applicant("user-2"), sub.ID, []submission.DocumentUpload{
			{Slot: submission.SlotCandidatePhoto, LocalPath: "/tmp/new-photo"},
		})
		require.NoError(t, err)
		assert.Equal(t, sub.Documents.AadharCard, updated.Documents.AadharCard)
	})

	t.Run("a failed re-upload keeps the previous URL", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := env.createForm(t, now.AddDate(0, 0, -7), now.AddDate(0, 0, 7))
		sub := env.submit(t, applicant("user-1"), form.ID)

		env.files.failSlot(submission.SlotSSCMarksheet)
		updated, err := env.svc.UpdateDocuments(ctx, applicant("user-1"), sub.ID, []submission.DocumentUpload{
			{Slot: submission.SlotSSCMarksheet, LocalPath: "/tmp/new-marksheet"},
		})
		require.NoError(t, err)
		assert.Equal(t, sub.Documents.SSCMarksheet, updated.Documents.SSCMarksheet)
	})

	t.Run("unknown slot", func(t *testing.T) {
		env := setupSubmission(t, now)
		form := env.createForm(t, now.AddDate(0, 0, -7), now.AddDate(0, 0, 7))
		sub := env.submit(t, applicant("user-1"), form.ID)

		_, err := env.svc.UpdateDocuments(ctx, applicant("user-1"), sub.ID, []submission.DocumentUpload{
			{Slot: "resume", LocalPath: "/tmp/resume"},
		})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func TestService_ListForUser(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	env := setupSubmission(t, now)
	first := env.createForm(t, now.AddDate(0, 0, -7), now.AddDate(0, 0, 7))
	second, err := env.forms.CreateForm(ctx, degreeform.DegreeForm{
		Title:      "M.Tech 2024",
		ActiveFrom: now.AddDate(0, 0, -7),
		LastDate:   now.AddDate(0, 0, 7),
	})
	require.NoError(t, err)

	env.submit(t, applicant("user-1"), first.ID)
	submission.NowFunc = func() time.Time { return now.Add(time.Hour) }
	env.submit(t, applicant("user-1"), second.ID)
	env.submit(t, applicant("user-2"), first.ID)

	subs, err := env.svc.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	// newest first
	assert.Equal(t, second.ID, subs[0].DegreeFormID)
	assert.Equal(t, first.ID, subs[1].DegreeFormID)
}
