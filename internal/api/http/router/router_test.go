package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httpctx "github.com/dtroode/chirp-server/internal/api/http/context"
	"github.com/dtroode/chirp-server/internal/metrics"
	"github.com/dtroode/chirp-server/internal/mocks"
	"github.com/dtroode/chirp-server/internal/model"
	"github.com/dtroode/chirp-server/internal/password"
	"github.com/dtroode/chirp-server/internal/repository/memory"
	"github.com/dtroode/chirp-server/internal/service"
	"github.com/dtroode/chirp-server/internal/testutil"
	"github.com/dtroode/chirp-server/internal/token"
)

type app struct {
	handler  http.Handler
	provider *mocks.IdentityProvider

	mu   sync.Mutex
	mail []model.Mail
}

func (a *app) lastMail(t *testing.T, kind model.MailKind) string {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.mail) - 1; i >= 0; i-- {
		if a.mail[i].Kind == kind {
			return a.mail[i].Token
		}
	}
	t.Fatalf("no %v mail sent", kind)
	return ""
}

func newApp(t *testing.T) *app {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	a := &app{provider: mocks.NewIdentityProvider(t)}

	dispatcher := mocks.NewMailDispatcher(t)
	dispatcher.On("Dispatch", mock.Anything).Run(func(args mock.Arguments) {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.mail = append(a.mail, args.Get(0).(model.Mail))
	}).Maybe()

	accounts := memory.NewAccountRepository()
	sessions := memory.NewSessionRepository()
	relationships := memory.NewRelationshipRepository()
	codec := token.NewJWT(token.Secrets{Access: "a", Refresh: "r", EmailVerify: "e", ForgotPassword: "f"})
	hasher := password.NewBcrypt(bcrypt.MinCost)
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	tokens := service.NewTokenService(codec, sessions, service.TokenTTLs{
		Access:         time.Minute,
		Refresh:        time.Hour,
		EmailVerify:    time.Hour,
		ForgotPassword: time.Hour,
	}, lg)

	posts := service.NewPost(memory.NewPostRepository(), service.NewVisibility(accounts, relationships), lg)

	r := New(Services{
		Auth:          service.NewAuth(accounts, tokens, hasher, dispatcher, a.provider, collector, lg),
		Verification:  service.NewVerification(accounts, tokens, hasher, dispatcher, collector, lg),
		Account:       service.NewAccount(accounts, tokens, collector, lg),
		Relationship:  service.NewRelationship(accounts, relationships, lg),
		Post:          posts,
		Bookmark:      service.NewBookmark(memory.NewBookmarkRepository(), posts, lg),
		Tokens:        tokens,
		StatusGate:    service.NewAccountStateMachine(),
		Metrics:       collector,
		MetricsHandle: metrics.Handler(reg),
	}, httpctx.NewManager(), lg)

	a.handler = r.Register()
	return a
}

func (a *app) do(t *testing.T, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

type tokens struct {
	AccountID    string `json:"account_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	NewUser      bool   `json:"new_user"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func registerBody(email string) map[string]string {
	return map[string]string{
		"email":            email,
		"password":         "Secret1!",
		"confirm_password": "Secret1!",
		"name":             "Alice",
		"date_of_birth":    "1990-01-02",
	}
}

func (a *app) registerVerified(t *testing.T, email string) tokens {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/users/register", registerBody(email), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/users/verify-email", map[string]string{
		"email_verify_token": a.lastMail(t, model.MailKindEmailVerify),
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[tokens](t, rec)
}

func TestRouter_RegisterVerifyAndPost(t *testing.T) {
	t.Parallel()
	a := newApp(t)

	rec := a.do(t, http.MethodPost, "/users/register", registerBody("alice@example.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decode[tokens](t, rec)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)

	rec = a.do(t, http.MethodGet, "/users/me", nil, registered.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "unverified", me["verify_status"])
	assert.Equal(t, "1990-01-02", me["date_of_birth"])
	assert.NotContains(t, me, "password_hash")

	rec = a.do(t, http.MethodPost, "/posts", map[string]string{"audience": "everyone", "content": "hi"}, registered.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_VERIFIED", decode[apiError](t, rec).Code)

	rec = a.do(t, http.MethodPost, "/users/verify-email", map[string]string{
		"email_verify_token": a.lastMail(t, model.MailKindEmailVerify),
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	verified := decode[tokens](t, rec)
	require.NotEmpty(t, verified.AccessToken)

	rec = a.do(t, http.MethodPost, "/posts", map[string]string{"audience": "everyone", "content": "hi"}, verified.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[map[string]any](t, rec)
	assert.Equal(t, "everyone", post["audience"])

	rec = a.do(t, http.MethodGet, "/posts/"+post["id"].(string), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Confirming again is an idempotent no-op without new tokens.
	rec = a.do(t, http.MethodPost, "/users/verify-email", map[string]string{
		"email_verify_token": a.lastMail(t, model.MailKindEmailVerify),
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "already verified")
}

func TestRouter_CirclePostVisibility(t *testing.T) {
	t.Parallel()
	a := newApp(t)

	author := a.registerVerified(t, "author@example.com")
	reader := a.registerVerified(t, "reader@example.com")

	rec := a.do(t, http.MethodPost, "/posts", map[string]string{"audience": "circle", "content": "secret"}, author.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	postPath := "/posts/" + decode[map[string]any](t, rec)["id"].(string)

	rec = a.do(t, http.MethodGet, postPath, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodGet, postPath, nil, reader.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decode[apiError](t, rec).Code)

	rec = a.do(t, http.MethodGet, postPath, nil, author.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/users/circle", map[string]string{"user_id": reader.AccountID}, author.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodGet, postPath, nil, reader.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodDelete, "/users/circle/"+reader.AccountID, nil, author.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, postPath, nil, reader.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(t, http.MethodGet, "/posts/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RefreshRotationAndLogout(t *testing.T) {
	t.Parallel()
	a := newApp(t)

	rec := a.do(t, http.MethodPost, "/users/register", registerBody("bob@example.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decode[tokens](t, rec)

	rec = a.do(t, http.MethodPost, "/users/refresh-token", map[string]string{"refresh_token": first.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	second := decode[tokens](t, rec)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	rec = a.do(t, http.MethodPost, "/users/refresh-token", map[string]string{"refresh_token": first.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "USED_OR_MISSING_REFRESH_TOKEN", decode[apiError](t, rec).Code)

	rec = a.do(t, http.MethodPost, "/users/refresh-token", map[string]string{"refresh_token": second.AccessToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "access token must not pass as refresh token")

	rec = a.do(t, http.MethodPost, "/users/logout", map[string]string{"refresh_token": second.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "logout requires a bearer token")

	rec = a.do(t, http.MethodPost, "/users/logout", map[string]string{"refresh_token": second.RefreshToken}, second.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/users/refresh-token", map[string]string{"refresh_token": second.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "USED_OR_MISSING_REFRESH_TOKEN", decode[apiError](t, rec).Code)
}

func TestRouter_LoginAndValidation(t *testing.T) {
	t.Parallel()
	a := newApp(t)

	rec := a.do(t, http.MethodPost, "/users/register", registerBody("carol@example.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodPost, "/users/register", registerBody("Carol@Example.com"), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", decode[apiError](t, rec).Code)

	rec = a.do(t, http.MethodPost, "/users/login", map[string]string{"email": "carol@example.com", "password": "Wrong1!!"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode[apiError](t, rec).Code)

	rec = a.do(t, http.MethodPost, "/users/login", map[string]string{"email": "carol@example.com", "password": "Secret1!"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[tokens](t, rec).RefreshToken)

	weak := registerBody("dave@example.com")
	weak["password"], weak["confirm_password"] = "password", "password"
	rec = a.do(t, http.MethodPost, "/users/register", weak, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decode[apiError](t, rec).Code)

	mismatch := registerBody("erin@example.com")
	mismatch["confirm_password"] = "Other1!!"
	rec = a.do(t, http.MethodPost, "/users/register", mismatch, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	badDate := registerBody("frank@example.com")
	badDate["date_of_birth"] = "02/01/1990"
	rec = a.do(t, http.MethodPost, "/users/register", badDate, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_PasswordReset(t *testing.T) {
	t.Parallel()
	a := newApp(t)

	rec := a.do(t, http.MethodPost, "/users/register", registerBody("gina@example.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decode[tokens](t, rec)

	rec = a.do(t, http.MethodPost, "/users/forgot-password", map[string]string{"email": "gina@example.com"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	forgot := a.lastMail(t, model.MailKindForgotPassword)

	rec = a.do(t, http.MethodPost, "/users/verify-forgot-password", map[string]string{"forgot_password_token": forgot}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/users/reset-password", map[string]string{
		"forgot_password_token": forgot,
		"password":              "Newpass1!",
		"confirm_password":      "Newpass1!",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/users/reset-password", map[string]string{
		"forgot_password_token": forgot,
		"password":              "Another1!",
		"confirm_password":      "Another1!",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_INVALID", decode[apiError](t, rec).Code)

	rec = a.do(t, http.MethodPost, "/users/refresh-token", map[string]string{"refresh_token": session.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "reset ends every session")

	rec = a.do(t, http.MethodPost, "/users/login", map[string]string{"email": "gina@example.com", "password": "Newpass1!"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/users/forgot-password", map[string]string{"email": "nobody@example.com"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_OAuthGoogle(t *testing.T) {
	t.Parallel()
	a := newApp(t)

	a.provider.On("Exchange", mock.Anything, "good").
		Return(model.ExternalIdentity{Email: "hank@example.com", EmailVerified: true, Name: "Hank"}, nil)
	a.provider.On("Exchange", mock.Anything, "unverified").
		Return(model.ExternalIdentity{Email: "ivy@example.com", EmailVerified: false}, nil)

	rec := a.do(t, http.MethodGet, "/users/oauth/google?code=good", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[tokens](t, rec).NewUser)

	rec = a.do(t, http.MethodGet, "/users/oauth/google?code=good", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[tokens](t, rec).NewUser)

	rec = a.do(t, http.MethodGet, "/users/oauth/google?code=unverified", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "PROVIDER_EMAIL_UNVERIFIED", decode[apiError](t, rec).Code)

	rec = a.do(t, http.MethodGet, "/users/oauth/google", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_FollowAndProfile(t *testing.T) {
	t.Parallel()
	a := newApp(t)

	alice := a.registerVerified(t, "alice@example.com")
	bob := a.registerVerified(t, "bob@example.com")

	rec := a.do(t, http.MethodPost, "/users/follow", map[string]string{"user_id": bob.AccountID}, alice.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/users/follow", map[string]string{"user_id": alice.AccountID}, alice.AccessToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "self follow")

	rec = a.do(t, http.MethodPost, "/users/follow", map[string]string{"user_id": "nope"}, alice.AccessToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(t, http.MethodDelete, "/users/follow/"+bob.AccountID, nil, alice.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPatch, "/users/me", map[string]string{"bio": "hello"}, alice.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "hello", decode[map[string]any](t, rec)["bio"])

	rec = a.do(t, http.MethodPatch, "/users/me", map[string]string{"name": ""}, alice.AccessToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	a := newApp(t)

	a.do(t, http.MethodPost, "/users/login", map[string]string{"email": "x@example.com", "password": "Secret1!"}, "")

	rec := a.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `chirp_http_requests_total{method="POST",route="/users/login",status_code="401"} 1`)
	assert.Contains(t, rec.Body.String(), "chirp_auth_events_total")
}

func TestRouter_UnverifiedViewerCannotReadPosts(t *testing.T) {
	t.Parallel()
	a := newApp(t)

	author := a.registerVerified(t, "author@example.com")
	rec := a.do(t, http.MethodPost, "/users/register", registerBody("pending@example.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	pending := decode[tokens](t, rec)

	rec = a.do(t, http.MethodPost, "/posts", map[string]string{"audience": "circle", "content": "inner"}, author.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	postPath := "/posts/" + decode[map[string]any](t, rec)["id"].(string)

	rec = a.do(t, http.MethodPost, "/users/circle", map[string]string{"user_id": pending.AccountID}, author.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, path := range []string{postPath, postPath + "/children"} {
		rec = a.do(t, http.MethodGet, path, nil, pending.AccessToken)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
		assert.Equal(t, "NOT_VERIFIED", decode[apiError](t, rec).Code, path)
	}
}

func TestRouter_Replies(t *testing.T) {
	t.Parallel()
	a := newApp(t)

	author := a.registerVerified(t, "author@example.com")
	reader := a.registerVerified(t, "reader@example.com")

	rec := a.do(t, http.MethodPost, "/posts", map[string]string{"audience": "everyone", "content": "root"}, author.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	parentID := decode[map[string]any](t, rec)["id"].(string)

	rec = a.do(t, http.MethodPost, "/posts", map[string]string{"audience": "everyone", "content": "open", "parent_id": parentID}, reader.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, parentID, decode[map[string]any](t, rec)["parent_id"])

	rec = a.do(t, http.MethodPost, "/posts", map[string]string{"audience": "circle", "content": "closed", "parent_id": parentID}, author.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	type page struct {
		Items []map[string]any `json:"items"`
		Limit int              `json:"limit"`
		Page  int              `json:"page"`
	}

	rec = a.do(t, http.MethodGet, "/posts/"+parentID+"/children", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	anon := decode[page](t, rec)
	require.Len(t, anon.Items, 1)
	assert.Equal(t, "open", anon.Items[0]["content"])
	assert.Equal(t, 20, anon.Limit)
	assert.Equal(t, 1, anon.Page)

	rec = a.do(t, http.MethodGet, "/posts/"+parentID+"/children?limit=5&page=1", nil, author.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[page](t, rec).Items, 2)

	rec = a.do(t, http.MethodGet, "/posts/"+parentID+"/children?limit=500", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(t, http.MethodGet, "/posts/"+parentID+"/children?page=first", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(t, http.MethodPost, "/posts", map[string]string{"audience": "everyone", "content": "x", "parent_id": "nope"}, reader.AccessToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_Bookmarks(t *testing.T) {
	t.Parallel()
	a := newApp(t)

	author := a.registerVerified(t, "author@example.com")
	reader := a.registerVerified(t, "reader@example.com")

	rec := a.do(t, http.MethodPost, "/posts", map[string]string{"audience": "everyone", "content": "keep"}, author.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	postID := decode[map[string]any](t, rec)["id"].(string)

	rec = a.do(t, http.MethodPost, "/bookmarks", map[string]string{"post_id": postID}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodPost, "/bookmarks", map[string]string{"post_id": postID}, reader.AccessToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, postID, decode[map[string]any](t, rec)["post_id"])

	rec = a.do(t, http.MethodPost, "/bookmarks", map[string]string{"post_id": postID}, reader.AccessToken)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodPost, "/bookmarks", map[string]string{"post_id": "7d1e6a3c-8b4f-4f7e-9a55-0f3b2f0c9e21"}, reader.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "POST_NOT_FOUND", decode[apiError](t, rec).Code)

	rec = a.do(t, http.MethodDelete, "/bookmarks/posts/"+postID, nil, reader.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodDelete, "/bookmarks/posts/not-a-uuid", nil, reader.AccessToken)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(t, http.MethodPost, "/users/register", registerBody("pending@example.com"), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	pending := decode[tokens](t, rec)

	rec = a.do(t, http.MethodPost, "/bookmarks", map[string]string{"post_id": postID}, pending.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_VERIFIED", decode[apiError](t, rec).Code)
}
