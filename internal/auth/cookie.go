package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

const (
	valueUserID = "user_id"
	valueEmail  = "email"
)

// CookieConfig configures the signed session cookie.
type CookieConfig struct {
	Name   string
	Secret string
	MaxAge int
	Secure bool
}

// CookieResolver reads the identity written by the auth service into a signed
// cookie and loads the matching profile.
type CookieResolver struct {
	store    *sessions.CookieStore
	name     string
	profiles ProfileRepository
	logger   interfaces.Logger
}

var _ interfaces.SessionResolver = (*CookieResolver)(nil)

func NewCookieResolver(cfg CookieConfig, profiles ProfileRepository, logger interfaces.Logger) *CookieResolver {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	return &CookieResolver{
		store:    store,
		name:     cfg.Name,
		profiles: profiles,
		logger:   logger,
	}
}

// Resolve never fails: a missing, tampered or expired cookie yields an
// anonymous session.
func (r *CookieResolver) Resolve(w http.ResponseWriter, req *http.Request) interfaces.AuthSession {
	logger := r.logger.WithContext(req.Context())

	sess, err := r.store.Get(req, r.name)
	if err != nil {
		logger.Debug("auth.session.invalid", "error", err)
	}
	s := &cookieSession{resolver: r, w: w, req: req, sess: sess}
	if sess == nil {
		return s
	}

	id, _ := sess.Values[valueUserID].(string)
	email, _ := sess.Values[valueEmail].(string)
	if strings.TrimSpace(id) == "" {
		return s
	}
	s.user = &interfaces.User{ID: id, Email: email}

	userID, err := uuid.Parse(id)
	if err != nil || r.profiles == nil {
		return s
	}
	record, err := r.profiles.GetByUserID(req.Context(), userID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		logger.Debug("auth.profile.missing", "user_id", id)
	case err != nil:
		logger.Warn("auth.profile.failed", "user_id", id, "error", err)
	default:
		s.profile = record.Profile()
	}
	return s
}

// SignIn writes the identity cookie. The storefront never authenticates
// anyone itself; this exists for the auth service and for tests.
func (r *CookieResolver) SignIn(w http.ResponseWriter, req *http.Request, user interfaces.User) error {
	sess, _ := r.store.Get(req, r.name)
	sess.Values[valueUserID] = user.ID
	sess.Values[valueEmail] = user.Email
	return sess.Save(req, w)
}

type cookieSession struct {
	resolver *CookieResolver
	w        http.ResponseWriter
	req      *http.Request
	sess     *sessions.Session
	user     *interfaces.User
	profile  *interfaces.Profile
}

func (s *cookieSession) User() *interfaces.User { return s.user }

func (s *cookieSession) Profile() *interfaces.Profile {
	if s.user == nil {
		return nil
	}
	return s.profile
}

// SignOut expires the cookie on the current response.
func (s *cookieSession) SignOut(ctx context.Context) error {
	sess := s.sess
	if sess == nil {
		sess = sessions.NewSession(s.resolver.store, s.resolver.name)
	}
	opts := *s.resolver.store.Options
	opts.MaxAge = -1
	sess.Options = &opts
	for key := range sess.Values {
		delete(sess.Values, key)
	}
	if err := sess.Save(s.req, s.w); err != nil {
		return err
	}
	s.user = nil
	s.profile = nil
	s.resolver.logger.WithContext(ctx).Info("auth.session.signed_out")
	return nil
}
