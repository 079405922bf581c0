package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/chirp-server/internal/metrics"
	"github.com/dtroode/chirp-server/internal/mocks"
	"github.com/dtroode/chirp-server/internal/model"
	"github.com/dtroode/chirp-server/internal/password"
	"github.com/dtroode/chirp-server/internal/repository/memory"
	"github.com/dtroode/chirp-server/internal/testutil"
	"github.com/dtroode/chirp-server/internal/token"
)

var testTTLs = TokenTTLs{
	Access:         15 * time.Minute,
	Refresh:        time.Hour,
	EmailVerify:    time.Hour,
	ForgotPassword: time.Hour,
}

type mailbox struct {
	mu   sync.Mutex
	sent []model.Mail
}

func (m *mailbox) last(kind model.MailKind) (model.Mail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Kind == kind {
			return m.sent[i], true
		}
	}
	return model.Mail{}, false
}

type testEnv struct {
	accounts      *memory.AccountRepository
	sessions      *memory.SessionRepository
	posts         *memory.PostRepository
	relationships *memory.RelationshipRepository
	bookmarks     *memory.BookmarkRepository
	codec         *token.JWT
	tokens        *TokenService
	provider      *mocks.IdentityProvider
	mail          *mailbox
	auth          *Auth
	verification  *Verification
	account       *Account
	relationship  *Relationship
	post          *Post
	bookmark      *Bookmark
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	env := &testEnv{
		accounts:      memory.NewAccountRepository(),
		sessions:      memory.NewSessionRepository(),
		posts:         memory.NewPostRepository(),
		relationships: memory.NewRelationshipRepository(),
		bookmarks:     memory.NewBookmarkRepository(),
		codec: token.NewJWT(token.Secrets{
			Access:         "access",
			Refresh:        "refresh",
			EmailVerify:    "verify",
			ForgotPassword: "forgot",
		}),
		provider: mocks.NewIdentityProvider(t),
		mail:     &mailbox{},
	}

	dispatcher := mocks.NewMailDispatcher(t)
	dispatcher.On("Dispatch", mock.Anything).Run(func(args mock.Arguments) {
		env.mail.mu.Lock()
		defer env.mail.mu.Unlock()
		env.mail.sent = append(env.mail.sent, args.Get(0).(model.Mail))
	}).Maybe()

	hasher := password.NewBcrypt(bcrypt.MinCost)
	env.tokens = NewTokenService(env.codec, env.sessions, testTTLs, lg)
	env.auth = NewAuth(env.accounts, env.tokens, hasher, dispatcher, env.provider, metrics.Nop{}, lg)
	env.verification = NewVerification(env.accounts, env.tokens, hasher, dispatcher, metrics.Nop{}, lg)
	env.account = NewAccount(env.accounts, env.tokens, metrics.Nop{}, lg)
	env.relationship = NewRelationship(env.accounts, env.relationships, lg)
	env.post = NewPost(env.posts, NewVisibility(env.accounts, env.relationships), lg)
	env.bookmark = NewBookmark(env.bookmarks, env.post, lg)

	return env
}

func (e *testEnv) register(t *testing.T, email string) AuthResult {
	t.Helper()

	res, err := e.auth.Register(context.Background(), RegisterParams{
		Email:       email,
		Password:    "Secret1!",
		Name:        "user",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return res
}

// registerVerified registers and confirms an account, returning the claims
// of its verified access token.
func (e *testEnv) registerVerified(t *testing.T, email string) model.TokenClaims {
	t.Helper()

	res := e.register(t, email)
	account, err := e.accounts.GetByID(context.Background(), res.AccountID)
	require.NoError(t, err)

	verified, err := e.verification.ConfirmEmailVerification(context.Background(), account.EmailVerifyToken)
	require.NoError(t, err)
	require.NotNil(t, verified.Pair)

	claims, err := e.codec.Verify(verified.Pair.AccessToken, model.TokenKindAccess)
	require.NoError(t, err)
	return claims
}

func (e *testEnv) refreshClaims(t *testing.T, refresh string) model.TokenClaims {
	t.Helper()

	claims, err := e.codec.Verify(refresh, model.TokenKindRefresh)
	require.NoError(t, err)
	return claims
}

func (e *testEnv) status(t *testing.T, id uuid.UUID) model.VerifyStatus {
	t.Helper()

	account, err := e.accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	return account.VerifyStatus
}
