package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"loan_predictor/internal/handler"
	"loan_predictor/internal/middleware"
	"loan_predictor/internal/model"
	"loan_predictor/internal/predictor"
	"loan_predictor/internal/repository"
	"loan_predictor/internal/service"
	"loan_predictor/internal/utils"
	"loan_predictor/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ---------------------------------------------------------------------------
// Test wiring
// ---------------------------------------------------------------------------

type deps struct {
	repo   repository.UserRepository
	auth   service.AuthService
	model  predictor.Model
	pinger handler.Pinger
}

func newEngine(t *testing.T, d deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	if d.repo == nil {
		d.repo = repository.NewMemoryUserRepository()
	}
	if d.auth == nil {
		d.auth = service.NewAuthService(d.repo, bcrypt.MinCost, log)
	}
	if d.model == nil {
		m, err := predictor.Load(context.Background(), "../../models/loan_model.yaml", predictor.S3Options{})
		require.NoError(t, err)
		d.model = m
	}
	if d.pinger == nil {
		d.pinger = d.repo
	}

	tmpl, err := web.Templates()
	require.NoError(t, err)

	sessions := middleware.NewSessionManager(utils.NewSessionUtil("test-secret", 1), false, log)
	rt := &handler.Router{
		Log:        log,
		Templates:  tmpl,
		Sessions:   sessions,
		Auth:       handler.NewAuthHandler(d.auth, sessions, log),
		Prediction: handler.NewPredictionHandler(service.NewPredictionService(d.model), log),
		Pages:      handler.NewPageHandler(d.pinger),
	}
	return rt.Engine()
}

// browser keeps the session cookie between requests the way a real client would.
type browser struct {
	t      *testing.T
	engine http.Handler
	cookie *http.Cookie
}

func newBrowser(t *testing.T, engine http.Handler) *browser {
	return &browser{t: t, engine: engine}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}

	rec := httptest.NewRecorder()
	b.engine.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			b.cookie = c
		}
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder { return b.do(http.MethodGet, path, nil) }

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, path, form)
}

func aliceRegistration() url.Values {
	return url.Values{
		"name":           {"A"},
		"surname":        {"B"},
		"username":       {"alice"},
		"password":       {"p@ss"},
		"account_number": {"ACC1"},
		"ifsc_code":      {"IFSC1"},
	}
}

func aliceLoanForm() url.Values {
	return url.Values{
		"Gender":           {"Male"},
		"Married":          {"Yes"},
		"Dependents":       {"0"},
		"Education":        {"Graduate"},
		"Self_employed":    {"No"},
		"Applicant_Income": {"5000"},
		"Loan_Amount":      {"120"},
		"Loan_Amount_Term": {"360"},
		"Credit_History":   {"1"},
		"Property_Area":    {"Urban"},
	}
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, location, rec.Header().Get("Location"))
}

func loggedInAlice(t *testing.T, engine http.Handler) *browser {
	t.Helper()
	b := newBrowser(t, engine)
	assertRedirect(t, b.post("/register", aliceRegistration()), "/register")
	assertRedirect(t, b.post("/login", url.Values{"username": {"alice"}, "password": {"p@ss"}}), "/enter_details")
	return b
}

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

func TestHome(t *testing.T) {
	b := newBrowser(t, newEngine(t, deps{}))

	rec := b.get("/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Loan Prediction")
}

func TestHealth(t *testing.T) {
	rec := newBrowser(t, newEngine(t, deps{})).get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","db":"healthy"}`, rec.Body.String())

	rec = newBrowser(t, newEngine(t, deps{pinger: failingPinger{}})).get("/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"error","db":"unhealthy"}`, rec.Body.String())
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("db down") }

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

func TestRegister_Form(t *testing.T) {
	rec := newBrowser(t, newEngine(t, deps{})).get("/register")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="account_number"`)
}

func TestRegister_SuccessFlashShownOnce(t *testing.T) {
	b := newBrowser(t, newEngine(t, deps{}))

	assertRedirect(t, b.post("/register", aliceRegistration()), "/register")

	rec := b.get("/register")
	assert.Contains(t, rec.Body.String(), handler.MsgRegistered)
	assert.Contains(t, rec.Body.String(), "flash-success")

	rec = b.get("/register")
	assert.NotContains(t, rec.Body.String(), handler.MsgRegistered)
}

func TestRegister_DuplicateUsernameKeepsOneRecord(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	b := newBrowser(t, newEngine(t, deps{repo: repo}))
	assertRedirect(t, b.post("/register", aliceRegistration()), "/register")
	b.get("/register")

	again := aliceRegistration()
	again.Set("password", "different")
	again.Set("account_number", "ACC2")
	assertRedirect(t, b.post("/register", again), "/register")

	rec := b.get("/register")
	assert.Contains(t, rec.Body.String(), handler.MsgUsernameTaken)
	assert.Contains(t, rec.Body.String(), "flash-error")

	stored, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "ACC1", stored.AccountNumber)
	assert.True(t, utils.CheckPasswordHash("p@ss", stored.PasswordHash))

	// the rejected registration must not have claimed ACC2
	bob := aliceRegistration()
	bob.Set("username", "bob")
	bob.Set("account_number", "ACC2")
	b.post("/register", bob)
	assert.Contains(t, b.get("/register").Body.String(), handler.MsgRegistered)
}

func TestRegister_DuplicateAccountNumber(t *testing.T) {
	b := newBrowser(t, newEngine(t, deps{}))
	b.post("/register", aliceRegistration())
	b.get("/register")

	bob := aliceRegistration()
	bob.Set("username", "bob")
	assertRedirect(t, b.post("/register", bob), "/register")

	assert.Contains(t, b.get("/register").Body.String(), handler.MsgAccountNumberUsed)
}

func TestRegister_MissingField(t *testing.T) {
	b := newBrowser(t, newEngine(t, deps{}))
	form := aliceRegistration()
	form.Del("ifsc_code")

	assertRedirect(t, b.post("/register", form), "/register")
	assert.Contains(t, b.get("/register").Body.String(), handler.MsgFieldsRequired)

	assertRedirect(t, b.post("/login", url.Values{"username": {"alice"}, "password": {"p@ss"}}), "/login")
}

func TestRegister_LongPasswordCanLogIn(t *testing.T) {
	b := newBrowser(t, newEngine(t, deps{}))
	form := aliceRegistration()
	long := strings.Repeat("x", 73)
	form.Set("password", long)

	assertRedirect(t, b.post("/register", form), "/register")
	assert.Contains(t, b.get("/register").Body.String(), handler.MsgRegistered)

	assertRedirect(t, b.post("/login", url.Values{"username": {"alice"}, "password": {strings.Repeat("x", 72)}}), "/login")
	assertRedirect(t, b.post("/login", url.Values{"username": {"alice"}, "password": {long}}), "/enter_details")
	assert.Equal(t, http.StatusOK, b.get("/enter_details").Code)
}

type brokenAuth struct{}

func (brokenAuth) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	return nil, errors.New("db down")
}

func (brokenAuth) Login(ctx context.Context, username, password string) (*model.User, error) {
	return nil, errors.New("db down")
}

func TestAuth_StoreFailures(t *testing.T) {
	b := newBrowser(t, newEngine(t, deps{auth: brokenAuth{}}))

	assert.Equal(t, http.StatusInternalServerError, b.post("/register", aliceRegistration()).Code)
	assert.Equal(t, http.StatusInternalServerError, b.post("/login", url.Values{"username": {"alice"}, "password": {"p@ss"}}).Code)
}

// ---------------------------------------------------------------------------
// Login / logout / gate
// ---------------------------------------------------------------------------

func TestLogin_Success(t *testing.T) {
	b := loggedInAlice(t, newEngine(t, deps{}))

	rec := b.get("/enter_details")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged in as alice")
	assert.NotContains(t, rec.Body.String(), `id="output"`)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{name: "wrong password", form: url.Values{"username": {"alice"}, "password": {"wrong"}}},
		{name: "unknown user", form: url.Values{"username": {"ghost"}, "password": {"p@ss"}}},
		{name: "missing password", form: url.Values{"username": {"alice"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBrowser(t, newEngine(t, deps{}))
			b.post("/register", aliceRegistration())

			assertRedirect(t, b.post("/login", tt.form), "/login")
			assertRedirect(t, b.get("/enter_details"), "/login")

			rec := b.get("/login")
			assert.Contains(t, rec.Body.String(), handler.MsgInvalidLogin)
			assert.Contains(t, rec.Body.String(), "flash-message")
		})
	}
}

func TestProtectedRoutes_RedirectWithoutLogin(t *testing.T) {
	b := newBrowser(t, newEngine(t, deps{}))

	assertRedirect(t, b.get("/enter_details"), "/login")
	assertRedirect(t, b.get("/predict"), "/login")
	assertRedirect(t, b.post("/predict", aliceLoanForm()), "/login")
}

func TestProtectedRoutes_RejectForgedCookie(t *testing.T) {
	engine := newEngine(t, deps{})
	forged := &model.Session{}
	forged.Start("alice")
	token, err := utils.NewSessionUtil("not-the-secret", 1).Encode(forged)
	require.NoError(t, err)

	b := newBrowser(t, engine)
	b.cookie = &http.Cookie{Name: middleware.SessionCookieName, Value: token}

	assertRedirect(t, b.get("/enter_details"), "/login")
}

func TestLogout(t *testing.T) {
	b := loggedInAlice(t, newEngine(t, deps{}))
	require.Equal(t, http.StatusOK, b.get("/enter_details").Code)

	assertRedirect(t, b.get("/logout"), "/login")

	assertRedirect(t, b.get("/enter_details"), "/login")
	assertRedirect(t, b.get("/predict"), "/login")
}

// ---------------------------------------------------------------------------
// Prediction
// ---------------------------------------------------------------------------

func TestPredict_EndToEnd(t *testing.T) {
	b := loggedInAlice(t, newEngine(t, deps{}))

	rec := b.get("/predict")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `id="output"`)

	rec = b.post("/predict", aliceLoanForm())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<output name="output">1.0</output>`)
}

func TestPredict_RejectedApplication(t *testing.T) {
	b := loggedInAlice(t, newEngine(t, deps{}))
	form := aliceLoanForm()
	form.Set("Credit_History", "0")

	rec := b.post("/predict", form)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<output name="output">0.0</output>`)
}

type fixedModel struct {
	value float64
	err   error
}

func (m fixedModel) Predict(ctx context.Context, f model.Features) (float64, error) {
	return m.value, m.err
}

func TestPredict_RoundsOutput(t *testing.T) {
	b := loggedInAlice(t, newEngine(t, deps{model: fixedModel{value: 0.6666}}))

	rec := b.post("/predict", aliceLoanForm())

	assert.Contains(t, rec.Body.String(), `<output name="output">0.7</output>`)
}

func TestPredict_BadInput(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{name: "non-numeric", field: "Loan_Amount", value: "lots"},
		{name: "missing", field: "Dependents", value: ""},
		{name: "fractional income", field: "Applicant_Income", value: "5000.5"},
		{name: "unknown category", field: "Property_Area", value: "Downtown"},
		{name: "not a number", field: "Loan_Amount_Term", value: "NaN"},
	}

	b := loggedInAlice(t, newEngine(t, deps{}))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := aliceLoanForm()
			form.Set(tt.field, tt.value)

			rec := b.post("/predict", form)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPredict_ModelFailure(t *testing.T) {
	b := loggedInAlice(t, newEngine(t, deps{model: fixedModel{err: errors.New("model crashed")}}))

	rec := b.post("/predict", aliceLoanForm())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
