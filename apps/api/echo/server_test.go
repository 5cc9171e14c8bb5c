package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/praveshhq/pravesh/apps/api/echo"
	"github.com/praveshhq/pravesh/core"
	"github.com/praveshhq/pravesh/core/degreeform"
	"github.com/praveshhq/pravesh/core/submission"
	"github.com/praveshhq/pravesh/core/user"
	emailsvc "github.com/praveshhq/pravesh/services/email"
	exportsvc "github.com/praveshhq/pravesh/services/export"
	tokensvc "github.com/praveshhq/pravesh/services/token"
	inmemdb "github.com/praveshhq/pravesh/storage/database/inmem"
)

const testPassword = "G00d#Pass!"

type nopLogger struct{}

func (nopLogger) Enable(bool) {}

func (nopLogger) Debug(string, ...interface{}) {}

func (nopLogger) Info(string, ...interface{}) {}

func (nopLogger) Warn(string, ...interface{}) {}

func (nopLogger) Error(string, ...interface{}) {}

func (nopLogger) Fatal(string, ...interface{}) {}


// fakeStore mirrors the FileStore contract: the temp file is consumed.
type fakeStore struct{}

func (fakeStore) Upload(ctx context.Context, localPath, ownerKey, slot string) (string, error) {
	_ = os.Remove(localPath)
	return fmt.Sprintf("https://files.test/%s/%s", ownerKey, slot), nil
}

type testEnv struct {
	app     echoapi.Server
	conf    *core.Config
	usrRepo user.Repository
	usrSvc  *user.Service
	forms   degreeform.Repository
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	conf := core.NewConfig()
	conf.WorkDir = t.TempDir()
	logger := nopLogger{}

	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	formRepo := inmemdb.NewDegreeFormRepository(db)
	subRepo := inmemdb.NewSubmissionRepository(db)

	tokens := tokensvc.NewJWTProvider(conf)
	usrSvc := user.NewService(usrRepo, emailsvc.NewConsoleServiceMock(conf), tokens, conf)

	env := &testEnv{
		app: echoapi.NewServer(echoapi.ServerDeps{
			Conf:           conf,
			Logger:         logger,
			UserSvc:        usrSvc,
			FormSvc:        degreeform.NewService(formRepo, conf),
			SubmissionSvc:  submission.NewService(subRepo, formRepo, fakeStore{}, logger),
			Tokens:         tokens,
			Exporter:       exportsvc.NewExcelExporter(),
			DisableReqLogs: true,
		}),
		conf:    conf,
		usrRepo: usrRepo,
		usrSvc:  usrSvc,
		forms:   formRepo,
	}
	return env
}

func (env *testEnv) do(method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.app.ServeHTTP(rec, req)
	return rec
}

// signUp registers and verifies an applicant, returning it with a live
// access token.
func (env *testEnv) signUp(t *testing.T, email string) (user.User, string) {
	t.Helper()
	ctx := context.Background()

	usr, _, err := env.usrSvc.Register(ctx, user.NewUser{
		Name:            "Asha Patel",
		Email:           email,
		Mobile:          "9876543210",
		Password:        testPassword,
		PasswordConfirm: testPassword,
	})
	require.NoError(t, err)

	stored, err := env.usrRepo.GetUserByID(ctx, usr.ID)
	require.NoError(t, err)
	verified, pair, err := env.usrSvc.VerifyOTP(ctx, usr.ID, user.VerifyOTP{OTP: stored.OTP})
	require.NoError(t, err)
	return verified, pair.Access
}

// signUpAdmin promotes a fresh account and re-logs in so the token carries
// the admin role.
func (env *testEnv) signUpAdmin(t *testing.T, email string) (user.User, string) {
	t.Helper()
	ctx := context.Background()

	usr, _ := env.signUp(t, email)
	_, err := env.usrSvc.GrantAdmin(ctx, user.GrantAdmin{Email: usr.Email})
	require.NoError(t, err)
	promoted, pair, err := env.usrSvc.Login(ctx, user.Credentials{Email: usr.Email, Password: testPassword})
	require.NoError(t, err)
	return promoted, pair.Access
}

func (env *testEnv) createForm(t *testing.T, title string, activeFrom, lastDate time.Time) degreeform.DegreeForm {
	t.Helper()
	form, err := env.forms.CreateForm(context.Background(), degreeform.DegreeForm{
		Title:       title,
		Description: "First-year engineering admissions",
		CreatedBy:   "admin-1",
		ActiveFrom:  activeFrom,
		LastDate:    lastDate,
	})
	require.NoError(t, err)
	return form
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

type errBody struct {
	Kind  string      `json:"kind"`
	Error interface{} `json:"error"`
}

func wantErr(t *testing.T, rec *httptest.ResponseRecorder, code int, kind string) {
	t.Helper()
	assert.Equal(t, code, rec.Code)
	var body errBody
	decodeBody(t, rec, &body)
	assert.Equal(t, kind, body.Kind)
}

func TestHome(t *testing.T) {
	env := setup(t)
	rec := env.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), env.conf.AppName)
}

func TestAuthAPI(t *testing.T) {
	t.Run("register, verify and fetch the session user", func(t *testing.T) {
		env := setup(t)

		body, _ := json.Marshal(map[string]string{
			"name": "Asha Patel", "email": "asha@example.com", "mobile_no": "9876543210",
			"password": testPassword, "password_confirm": testPassword,
		})
		rec := env.do(http.MethodPost, "/v1/auth/register", "", body)
		require.Equal(t, http.StatusCreated, rec.Code)

		var reg struct {
			User     user.User `json:"user"`
			OTPToken string    `json:"otp_token"`
		}
		decodeBody(t, rec, &reg)
		assert.False(t, reg.User.IsVerified)
		require.NotEmpty(t, reg.OTPToken)

		stored, err := env.usrRepo.GetUserByID(context.Background(), reg.User.ID)
		require.NoError(t, err)
		body, _ = json.Marshal(map[string]string{"otp": stored.OTP})
		rec = env.do(http.MethodPost, "/v1/auth/verify-otp", reg.OTPToken, body)
		require.Equal(t, http.StatusOK, rec.Code)

		var session struct {
			User   user.User      `json:"user"`
			Tokens core.TokenPair `json:"tokens"`
		}
		decodeBody(t, rec, &session)
		assert.True(t, session.User.IsVerified)
		require.NotEmpty(t, session.Tokens.Access)

		rec = env.do(http.MethodGet, "/v1/auth/current-user", session.Tokens.Access, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var current user.User
		decodeBody(t, rec, &current)
		assert.Equal(t, reg.User.ID, current.ID)
	})

	t.Run("registering a verified email conflicts", func(t *testing.T) {
		env := setup(t)
		env.signUp(t, "asha@example.com")

		body, _ := json.Marshal(map[string]string{
			"name": "Asha Patel", "email": "asha@example.com", "mobile_no": "9876543210",
			"password": testPassword, "password_confirm": testPassword,
		})
		rec := env.do(http.MethodPost, "/v1/auth/register", "", body)
		wantErr(t, rec, http.StatusConflict, "email_exists")
	})

	t.Run("password mismatch", func(t *testing.T) {
		env := setup(t)
		body, _ := json.Marshal(map[string]string{
			"name": "Asha Patel", "email": "asha@example.com", "mobile_no": "9876543210",
			"password": testPassword, "password_confirm": "Other#Pass1",
		})
		rec := env.do(http.MethodPost, "/v1/auth/register", "", body)
		wantErr(t, rec, http.StatusBadRequest, "validation_error")
	})

	t.Run("an access token cannot verify OTP", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUp(t, "asha@example.com")

		body, _ := json.Marshal(map[string]string{"otp": "123456"})
		rec := env.do(http.MethodPost, "/v1/auth/verify-otp", access, body)
		wantErr(t, rec, http.StatusUnauthorized, "token_invalid")
	})

	t.Run("login with wrong password", func(t *testing.T) {
		env := setup(t)
		env.signUp(t, "asha@example.com")

		body, _ := json.Marshal(map[string]string{"email": "asha@example.com", "password": "Wrong#Pass1"})
		rec := env.do(http.MethodPost, "/v1/auth/login", "", body)
		wantErr(t, rec, http.StatusUnauthorized, "auth_failed")
	})

	t.Run("login with unknown email reads like bad credentials", func(t *testing.T) {
		env := setup(t)
		body, _ := json.Marshal(map[string]string{"email": "ghost@example.com", "password": "Wrong#Pass1"})
		rec := env.do(http.MethodPost, "/v1/auth/login", "", body)
		wantErr(t, rec, http.StatusUnauthorized, "auth_failed")
	})

	t.Run("refresh token rotation", func(t *testing.T) {
		env := setup(t)
		ctx := context.Background()
		usr, _ := env.signUp(t, "asha@example.com")
		_, pair, err := env.usrSvc.Login(ctx, user.Credentials{Email: usr.Email, Password: testPassword})
		require.NoError(t, err)

		body, _ := json.Marshal(map[string]string{"refresh_token": pair.Refresh})
		rec := env.do(http.MethodPost, "/v1/auth/refresh-token", "", body)
		require.Equal(t, http.StatusOK, rec.Code)

		var session struct {
			Tokens core.TokenPair `json:"tokens"`
		}
		decodeBody(t, rec, &session)
		assert.NotEmpty(t, session.Tokens.Access)

		// the old refresh token is burned
		rec = env.do(http.MethodPost, "/v1/auth/refresh-token", "", body)
		wantErr(t, rec, http.StatusUnauthorized, "auth_failed")
	})

	t.Run("missing bearer token", func(t *testing.T) {
		env := setup(t)
		rec := env.do(http.MethodGet, "/v1/auth/current-user", "", nil)
		wantErr(t, rec, http.StatusUnauthorized, "unauthorized")
	})
}

func TestDegreeFormAPI(t *testing.T) {
	now := time.Now().UTC()

	t.Run("list is open to any authenticated user", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUp(t, "asha@example.com")
		env.createForm(t, "B.Tech 2024", now.Add(-24*time.Hour), now.Add(24*time.Hour))

		rec := env.do(http.MethodGet, "/v1/degree-forms", access, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var forms []degreeform.DegreeForm
		decodeBody(t, rec, &forms)
		require.Len(t, forms, 1)
		assert.Equal(t, "B.Tech 2024", forms[0].Title)
	})

	t.Run("applicants only see an open form", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUp(t, "asha@example.com")
		open := env.createForm(t, "B.Tech 2024", now.Add(-24*time.Hour), now.Add(24*time.Hour))
		upcoming := env.createForm(t, "M.Tech 2024", now.Add(24*time.Hour), now.Add(48*time.Hour))

		rec := env.do(http.MethodGet, "/v1/degree-forms/"+open.ID, access, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(http.MethodGet, "/v1/degree-forms/"+upcoming.ID, access, nil)
		wantErr(t, rec, http.StatusForbidden, "form_not_active")
	})

	t.Run("admins see any form", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUpAdmin(t, "dean@example.com")
		upcoming := env.createForm(t, "M.Tech 2024", now.Add(24*time.Hour), now.Add(48*time.Hour))

		rec := env.do(http.MethodGet, "/v1/degree-forms/"+upcoming.ID, access, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAdminAPI(t *testing.T) {
	now := time.Now().UTC()

	t.Run("applicants are locked out", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUp(t, "asha@example.com")

		body, _ := json.Marshal(map[string]string{"email": "asha@example.com"})
		rec := env.do(http.MethodPatch, "/v1/admin/grant-admin", access, body)
		wantErr(t, rec, http.StatusForbidden, "forbidden")
	})

	t.Run("grant admin", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUpAdmin(t, "dean@example.com")
		env.signUp(t, "asha@example.com")

		body, _ := json.Marshal(map[string]string{"email": "asha@example.com"})
		rec := env.do(http.MethodPatch, "/v1/admin/grant-admin", access, body)
		require.Equal(t, http.StatusOK, rec.Code)
		var usr user.User
		decodeBody(t, rec, &usr)
		assert.Equal(t, user.RoleAdmin, usr.Role)
	})

	t.Run("create, update and delete a form", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUpAdmin(t, "dean@example.com")

		body, _ := json.Marshal(map[string]string{
			"title": "B.Tech 2024", "description": "First-year admissions",
			"active_from": "2024-06-01T10:00", "last_date": "2024-06-30T23:59",
		})
		rec := env.do(http.MethodPost, "/v1/admin/degree-forms", access, body)
		require.Equal(t, http.StatusCreated, rec.Code)
		var form degreeform.DegreeForm
		decodeBody(t, rec, &form)
		assert.NotEmpty(t, form.ID)

		// duplicate title
		rec = env.do(http.MethodPost, "/v1/admin/degree-forms", access, body)
		wantErr(t, rec, http.StatusConflict, "title_exists")

		body, _ = json.Marshal(map[string]string{
			"title": "B.Tech 2024", "description": "Window extended",
			"active_from": "2024-06-01T10:00", "last_date": "2024-07-15T23:59",
		})
		rec = env.do(http.MethodPut, "/v1/admin/degree-forms/"+form.ID, access, body)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(http.MethodDelete, "/v1/admin/degree-forms/"+form.ID, access, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = env.do(http.MethodDelete, "/v1/admin/degree-forms/"+form.ID, access, nil)
		wantErr(t, rec, http.StatusNotFound, "not_found")
	})

	t.Run("ranked submissions with filter and limit", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUpAdmin(t, "dean@example.com")
		form := env.createForm(t, "B.Tech 2024", now.Add(-24*time.Hour), now.Add(24*time.Hour))

		env.apply(t, "a@example.com", form.ID, 90, "CS")
		env.apply(t, "b@example.com", form.ID, 85, "IT")
		env.apply(t, "c@example.com", form.ID, 85, "it") // normalized

		rec := env.do(http.MethodGet, "/v1/admin/submissions/"+form.ID, access, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var ranked []submission.RankedSubmission
		decodeBody(t, rec, &ranked)
		require.Len(t, ranked, 3)
		assert.Equal(t, 1, ranked[0].Rank)
		assert.Equal(t, 2, ranked[1].Rank)
		assert.Equal(t, 3, ranked[2].Rank)

		rec = env.do(http.MethodGet, "/v1/admin/submissions/"+form.ID+"?branches=it&limit=1", access, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		decodeBody(t, rec, &ranked)
		require.Len(t, ranked, 1)
		assert.Equal(t, []string{"IT"}, ranked[0].Preferences)

		rec = env.do(http.MethodGet, "/v1/admin/submissions/"+form.ID+"?limit=-3", access, nil)
		wantErr(t, rec, http.StatusBadRequest, "validation_error")
	})

	t.Run("export responds with a workbook attachment", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUpAdmin(t, "dean@example.com")
		form := env.createForm(t, "B.Tech 2024", now.Add(-24*time.Hour), now.Add(24*time.Hour))
		env.apply(t, "a@example.com", form.ID, 90, "CS")

		rec := env.do(http.MethodGet, "/v1/admin/submissions/"+form.ID+"/export?limit=10", access, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			rec.Header().Get(echo.HeaderContentType))
		assert.Equal(t, `attachment; filename=B.Tech_2024_10.xlsx`, rec.Header().Get(echo.HeaderContentDisposition))
		assert.NotZero(t, rec.Body.Len())
	})
}

func TestSubmissionAPI(t *testing.T) {
	now := time.Now().UTC()

	t.Run("multipart submit", func(t *testing.T) {
		env := setup(t)
		usr, access := env.signUp(t, "asha@example.com")
		form := env.createForm(t, "B.Tech 2024", now.Add(-24*time.Hour), now.Add(24*time.Hour))

		body, contentType := multipartBody(t, detailsJSON(t, 90, "CS"), allSlots()...)
		rec := env.doMultipart(http.MethodPost, "/v1/submissions/"+form.ID, access, body, contentType)
		require.Equal(t, http.StatusCreated, rec.Code)

		var sub submission.Submission
		decodeBody(t, rec, &sub)
		assert.Equal(t, usr.ID, sub.UserID)
		assert.Equal(t, "https://files.test/"+usr.ID+"/candidatePhoto", sub.Documents.CandidatePhoto)

		// applying twice conflicts
		body, contentType = multipartBody(t, detailsJSON(t, 90, "CS"), allSlots()...)
		rec = env.doMultipart(http.MethodPost, "/v1/submissions/"+form.ID, access, body, contentType)
		wantErr(t, rec, http.StatusConflict, "already_submitted")
	})

	t.Run("missing jsonData field", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUp(t, "asha@example.com")
		form := env.createForm(t, "B.Tech 2024", now.Add(-24*time.Hour), now.Add(24*time.Hour))

		body, contentType := multipartBody(t, "", allSlots()...)
		rec := env.doMultipart(http.MethodPost, "/v1/submissions/"+form.ID, access, body, contentType)
		wantErr(t, rec, http.StatusBadRequest, "validation_error")
	})

	t.Run("missing required document", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUp(t, "asha@example.com")
		form := env.createForm(t, "B.Tech 2024", now.Add(-24*time.Hour), now.Add(24*time.Hour))

		body, contentType := multipartBody(t, detailsJSON(t, 90, "CS"), submission.SlotCandidatePhoto)
		rec := env.doMultipart(http.MethodPost, "/v1/submissions/"+form.ID, access, body, contentType)
		wantErr(t, rec, http.StatusBadRequest, "validation_error")
	})

	t.Run("own submissions list", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUp(t, "asha@example.com")

		rec := env.do(http.MethodGet, "/v1/submissions", access, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var subs []submission.Submission
		decodeBody(t, rec, &subs)
		assert.Empty(t, subs)
	})

	t.Run("owner can replace details until the deadline", func(t *testing.T) {
		env := setup(t)
		_, access := env.signUp(t, "asha@example.com")
		form := env.createForm(t, "B.Tech 2024", now.Add(-24*time.Hour), now.Add(24*time.Hour))
		sub := env.applyAs(t, access, form.ID, 90, "CS")

		det := json.RawMessage(detailsJSON(t, 92, "EC"))
		rec := env.do(http.MethodPut, "/v1/submissions/"+sub.ID+"/details", access, det)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated submission.Submission
		decodeBody(t, rec, &updated)
		assert.Equal(t, []string{"EC"}, updated.BranchPreferences.Chain())
	})

	t.Run("strangers cannot retrieve it", func(t *testing.T) {
		env := setup(t)
		_, owner := env.signUp(t, "asha@example.com")
		_, stranger := env.signUp(t, "ravi@example.com")
		form := env.createForm(t, "B.Tech 2024", now.Add(-24*time.Hour), now.Add(24*time.Hour))
		sub := env.applyAs(t, owner, form.ID, 90, "CS")

		rec := env.do(http.MethodGet, "/v1/submissions/"+sub.ID, stranger, nil)
		wantErr(t, rec, http.StatusForbidden, "forbidden")
	})
}

// apply registers a fresh applicant and submits on their behalf.
func (env *testEnv) apply(t *testing.T, email, formID string, percentile float64, pref1 string) submission.Submission {
	t.Helper()
	_, access := env.signUp(t, email)
	return env.applyAs(t, access, formID, percentile, pref1)
}

func (env *testEnv) applyAs(t *testing.T, access, formID string, percentile float64, pref1 string) submission.Submission {
	t.Helper()
	body, contentType := multipartBody(t, detailsJSON(t, percentile, pref1), allSlots()...)
	rec := env.doMultipart(http.MethodPost, "/v1/submissions/"+formID, access, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sub submission.Submission
	decodeBody(t, rec, &sub)
	return sub
}

func (env *testEnv) doMultipart(method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, contentType)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.app.ServeHTTP(rec, req)
	return rec
}

func allSlots() []string {
	slots := make([]string, 0, len(submission.DocumentSlots))
	for _, ds := range submission.DocumentSlots {
		slots = append(slots, ds.Slot)
	}
	return slots
}

// multipartBody builds a submit payload: the JSON details field (when
// non-empty) plus a dummy PDF per slot.
func multipartBody(t *testing.T, details string, slots ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if details != "" {
		require.NoError(t, w.WriteField(detailsFieldName, details))
	}
	for _, slot := range slots {
		part, err := w.CreateFormFile(slot, slot+".pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 dummy"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

const detailsFieldName = "jsonData"

func detailsJSON(t *testing.T, percentile float64, pref1 string) string {
	t.Helper()
	det := submission.Details{
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
			GujcetPercentile:     percentile,
		},
		BranchPreferences: submission.BranchPreferences{Pref1: pref1},
	}
	data, err := json.Marshal(det)
	require.NoError(t, err)
	return string(data)
}
