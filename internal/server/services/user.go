// Package services contains server-side business logic. This file implements
// UserService, which handles signup, login with access-token issuance, and
// the administrative user listing.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/filter"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

// AccessTokenTTL is the fixed lifetime of issued access tokens.
const AccessTokenTTL = common.AccessTokenTTLSeconds * time.Second

// Caller-facing messages.
const (
	MsgUserCreated        = "User created successfully!"
	MsgUserExists         = "User already exists with the given email!"
	MsgSignupFailed       = "Something went wrong during signup."
	MsgInvalidCredentials = "Invalid email or password"
	MsgLoginFailed        = "Something went wrong during login."
	MsgListFailed         = "Something went wrong while listing users."
)

var tracer = otel.Tracer("github.com/dmitrijs2005/gophauth/internal/server/services")

// SignupResult acknowledges a created account. It never carries a token.
type SignupResult struct {
	Message string `json:"message"`
}

// LoginResult is returned on successful login.
type LoginResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
	UserName    string `json:"username"`
	Email       string `json:"email"`
}

// UserService provides authentication-related operations:
// - Signup: validate, check for duplicates, hash and persist
// - Login: verify credentials and mint an access token
// - ListUsers: dump every stored record
//
// Errors returned to callers are *common.KindError values whose kind is one of
// common.ErrorConflict, common.ErrorUnauthorized or common.ErrorInternal.
type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	filter      *filter.EmailFilter
	hasher      auth.PasswordHasher
	jwtSecret   []byte
	log         logging.Logger
	metrics     *metrics.Metrics
}

// NewUserService wires the service. log and m may be nil.
func NewUserService(
	db dbx.DBTX,
	rm repomanager.RepositoryManager,
	f *filter.EmailFilter,
	hasher auth.PasswordHasher,
	secretKey []byte,
	log logging.Logger,
	m *metrics.Metrics,
) *UserService {
	if log == nil {
		log = logging.Nop{}
	}
	return &UserService{
		db:          db,
		repomanager: rm,
		filter:      f,
		hasher:      hasher,
		jwtSecret:   secretKey,
		log:         log.With("module", "users"),
		metrics:     m,
	}
}

// WarmFilter loads every stored email into the existence filter. It must run
// once before the service starts taking signups.
func (s *UserService) WarmFilter(ctx context.Context) (int, error) {
	n, err := s.filter.Warm(ctx, s.repomanager.Users(s.db))
	if err != nil {
		s.log.Error(ctx, "email filter warm-up failed", logging.ErrorAttrs(err)...)
		return 0, err
	}
	s.log.Info(ctx, "email filter warmed", "emails", n, "bits", s.filter.Cap())
	return n, nil
}

// Signup registers a new account.
//
// The filter only decides whether the duplicate lookup is worth doing; the
// store's own uniqueness check at insert time is what actually rejects a
// duplicate. The email is added to the filter only after the insert succeeds.
func (s *UserService) Signup(ctx context.Context, c validation.Credentials) (*SignupResult, error) {
	ctx, span := tracer.Start(ctx, "users.signup")
	defer span.End()

	if violations := validation.ValidateSignup(c); len(violations) > 0 {
		s.metrics.RecordSignup(metrics.OutcomeInvalid)
		return nil, fail(span, common.NewConflict(strings.Join(violations, ", ")))
	}

	log := s.log.With("email", c.Email)
	repo := s.repomanager.Users(s.db)

	if s.filter.MightContain(c.Email) {
		_, err := repo.FindByEmail(ctx, c.Email)
		switch {
		case err == nil:
			s.metrics.RecordFilterHit(false)
			s.metrics.RecordSignup(metrics.OutcomeConflict)
			return nil, fail(span, common.NewConflict(MsgUserExists))
		case errors.Is(err, common.ErrorNotFound):
			s.metrics.RecordFilterHit(true)
			log.Debug(ctx, "email filter false positive")
		default:
			return nil, s.signupFailed(ctx, span, log, "duplicate lookup failed", err)
		}
	}

	hash, err := s.hasher.Hash(c.Password)
	if err != nil {
		return nil, s.signupFailed(ctx, span, log, "password hashing failed", err)
	}

	err = repo.Create(ctx, &models.User{Email: c.Email, UserName: c.Username, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			log.Info(ctx, "duplicate signup rejected at insert")
			s.metrics.RecordSignup(metrics.OutcomeConflict)
			return nil, fail(span, common.NewConflict(MsgUserExists))
		}
		return nil, s.signupFailed(ctx, span, log, "user insert failed", err)
	}

	s.filter.Add(c.Email)
	s.metrics.RecordSignup(metrics.OutcomeSuccess)
	log.Info(ctx, "user signed up")

	return &SignupResult{Message: MsgUserCreated}, nil
}

// Login checks the credentials and issues an access token. A missing account
// and a wrong password produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx, span := tracer.Start(ctx, "users.login")
	defer span.End()

	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.metrics.RecordLogin(metrics.OutcomeUnauthorized)
			return nil, fail(span, common.NewUnauthorized(MsgInvalidCredentials))
		}
		s.log.Error(ctx, "user lookup failed", logging.ErrorAttrs(err)...)
		s.metrics.RecordLogin(metrics.OutcomeError)
		return nil, fail(span, common.NewInternal(MsgLoginFailed))
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.metrics.RecordLogin(metrics.OutcomeUnauthorized)
		return nil, fail(span, common.NewUnauthorized(MsgInvalidCredentials))
	}

	token, err := auth.GenerateToken(auth.Claims{Username: user.UserName, Email: user.Email}, s.jwtSecret, AccessTokenTTL)
	if err != nil {
		s.log.Error(ctx, "token signing failed", logging.ErrorAttrs(err)...)
		s.metrics.RecordLogin(metrics.OutcomeError)
		return nil, fail(span, common.NewInternal(MsgLoginFailed))
	}

	s.metrics.RecordLogin(metrics.OutcomeSuccess)

	return &LoginResult{
		AccessToken: token,
		ExpiresIn:   common.AccessTokenTTLSeconds,
		UserName:    user.UserName,
		Email:       user.Email,
	}, nil
}

// ListUsers returns every stored record including its password hash.
// The operation is not gated by authentication.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.repomanager.Users(s.db).ListAll(ctx)
	if err != nil {
		s.log.Error(ctx, "listing users failed", logging.ErrorAttrs(err)...)
		return nil, common.NewInternal(MsgListFailed)
	}
	return users, nil
}

// --- helpers below ---

func (s *UserService) signupFailed(ctx context.Context, span trace.Span, log logging.Logger, msg string, cause error) error {
	log.Error(ctx, msg, logging.ErrorAttrs(cause)...)
	s.metrics.RecordSignup(metrics.OutcomeError)
	span.RecordError(cause)
	return fail(span, common.NewInternal(MsgSignupFailed))
}

func fail(span trace.Span, err error) error {
	span.SetStatus(codes.Error, err.Error())
	return err
}
