package jwtware

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-router"

	"github.com/goliatone/go-enroll/auth"
)

var (
	defaultTokenLookup       = "header:" + router.HeaderAuthorization
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// Authorizer resolves a bearer token into a user allowed by policy.
// auth.Gate implements it.
type Authorizer interface {
	Authorize(ctx context.Context, token string, policy auth.Policy) (*auth.User, error)
}

// ValidationListener is invoked after the policy admitted the user and
// before the request proceeds.
type ValidationListener func(ctx router.Context, user *auth.User) error

type Config struct {
	Filter func(router.Context) bool
	// SuccessHandler runs instead of the wrapped handler when set
	SuccessHandler router.HandlerFunc
	ErrorHandler   router.ErrorHandler
	// Authorizer is required
	Authorizer Authorizer
	// Policy is required and evaluated as given for every request that
	// reaches the middleware. An empty role set denies everyone.
	Policy      *auth.Policy
	ContextKey  string
	TokenLookup string
	AuthScheme  string

	// ContextEnricher propagates the user to the request's standard context.
	// Defaults to auth.WithUser.
	ContextEnricher func(ctx context.Context, user *auth.User) context.Context

	ValidationListeners []ValidationListener
}

// New returns middleware that admits requests whose bearer token resolves
// to a user allowed by cfg.Policy.
func New(config ...Config) router.MiddlewareFunc {
	cfg := GetDefaultConfig(config...)
	extractors := cfg.getExtractors()
	policy := *cfg.Policy

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Filter != nil && cfg.Filter(ctx) {
				return hf(ctx)
			}

			raw, err := ExtractRawTokenFromContext(ctx, extractors)
			if err != nil || raw == "" {
				return cfg.ErrorHandler(ctx, auth.ErrMissingToken)
			}

			user, err := cfg.Authorizer.Authorize(ctx.Context(), raw, policy)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			if err := cfg.runValidationListeners(ctx, user); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, user)
			ctx.SetContext(cfg.ContextEnricher(ctx.Context(), user))

			if cfg.SuccessHandler != nil {
				return cfg.SuccessHandler(ctx)
			}
			return hf(ctx)
		}
	}
}

// CurrentUser returns the user stored by the middleware under the default key.
func CurrentUser(ctx router.Context) (*auth.User, bool) {
	return CurrentUserAt(ctx, "user")
}

// CurrentUserAt returns the user stored by the middleware under key.
func CurrentUserAt(ctx router.Context, key string) (*auth.User, bool) {
	user, ok := ctx.Locals(key).(*auth.User)
	return user, ok && user != nil
}

func ExtractRawTokenFromContext(ctx router.Context, extractors []JWTExtractor) (string, error) {
	var raw string
	err := ErrJWTMissingOrMalformed

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			break
		}
	}

	return raw, err
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	// errors are returned to the router, which owns the response shape
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(_ router.Context, err error) error {
			return err
		}
	}

	if cfg.Authorizer == nil {
		panic("AUTH: JWT middleware configuration: Authorizer is required.")
	}

	if cfg.Policy == nil {
		panic("AUTH: JWT middleware configuration: Policy is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ContextEnricher == nil {
		cfg.ContextEnricher = auth.WithUser
	}

	return cfg
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

func (cfg *Config) runValidationListeners(ctx router.Context, user *auth.User) error {
	for _, listener := range cfg.ValidationListeners {
		if listener == nil {
			continue
		}
		if err := listener(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = strings.TrimSpace(authSchemes[0])
	}

	// header:Authorization,cookie:jwt,query:auth_token,param:token
	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}

		source, name := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if name == "" {
			continue
		}

		switch source {
		case "header":
			extractors = append(extractors, jwtFromHeader(name, authScheme))
		case "query":
			extractors = append(extractors, jwtFromQuery(name))
		case "param":
			extractors = append(extractors, jwtFromParam(name))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(name))
		}
	}

	return extractors
}

type JWTExtractor func(ctx router.Context) (string, error)

// jwtFromHeader returns a function that extracts token from the request header.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	return func(c router.Context) (string, error) {
		a := c.GetString(header, "")
		l := len(authScheme)
		if l == 0 {
			return "", ErrJWTMissingOrMalformed
		}
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) && a[l] == ' ' {
			if token := strings.TrimSpace(a[l:]); token != "" {
				return token, nil
			}
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// jwtFromQuery returns a function that extracts token from the query string.
func jwtFromQuery(param string) JWTExtractor {
	return func(c router.Context) (string, error) {
		token := c.Query(param, "")
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromParam returns a function that extracts token from the url param string.
func jwtFromParam(param string) JWTExtractor {
	return func(c router.Context) (string, error) {
		token := c.Param(param, "")
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}

// jwtFromCookie returns a function that extracts token from the named cookie.
func jwtFromCookie(name string) JWTExtractor {
	return func(c router.Context) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}
