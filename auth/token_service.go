package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the lifetime of an access token when none is configured
const DefaultTokenTTL = 30 * 24 * time.Hour

// SessionClaims is the payload of an access token
type SessionClaims struct {
	jwt.RegisteredClaims
}

// HMACTokenService implements TokenService with HS256 signed JWTs
type HMACTokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	clock      Clock
	logger     Logger
}

type TokenServiceOption func(*HMACTokenService)

// WithTokenTTL sets the default lifetime of issued tokens
func WithTokenTTL(ttl time.Duration) TokenServiceOption {
	return func(ts *HMACTokenService) {
		if ttl > 0 {
			ts.ttl = ttl
		}
	}
}

// WithTokenIssuer sets the iss claim; verification then requires it.
func WithTokenIssuer(issuer string) TokenServiceOption {
	return func(ts *HMACTokenService) {
		ts.issuer = strings.TrimSpace(issuer)
	}
}

func WithTokenClock(clock Clock) TokenServiceOption {
	return func(ts *HMACTokenService) {
		if clock != nil {
			ts.clock = clock
		}
	}
}

func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *HMACTokenService) {
		ts.logger = resolveLogger(logger)
	}
}

// NewTokenService creates a token service. An empty signing key is an error.
func NewTokenService(signingKey []byte, opts ...TokenServiceOption) (*HMACTokenService, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	key := make([]byte, len(signingKey))
	copy(key, signingKey)

	ts := &HMACTokenService{
		signingKey: key,
		ttl:        DefaultTokenTTL,
		clock:      systemClock,
		logger:     defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts, nil
}

// NewTokenServiceFromConfig builds the service from Config
func NewTokenServiceFromConfig(cfg Config, opts ...TokenServiceOption) (*HMACTokenService, error) {
	base := []TokenServiceOption{
		WithTokenTTL(cfg.GetTokenTTL()),
		WithTokenIssuer(cfg.GetIssuer()),
	}
	return NewTokenService([]byte(cfg.GetSigningKey()), append(base, opts...)...)
}

// DefaultTTL returns the lifetime applied when Issue is called with ttl <= 0
func (ts *HMACTokenService) DefaultTTL() time.Duration {
	return ts.ttl
}

// Issue signs a token for subject that expires after ttl
func (ts *HMACTokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", goerrors.New("token subject must not be empty", goerrors.CategoryInternal).
			WithCode(goerrors.CodeInternal)
	}

	if ttl <= 0 {
		ttl = ts.ttl
	}

	now := ts.clock()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token").
			WithCode(goerrors.CodeInternal)
	}

	return signed, nil
}

// Verify checks signature and expiry and returns the subject. Every
// failure is reported as ErrInvalidToken.
func (ts *HMACTokenService) Verify(tokenString string) (string, error) {
	claims, err := ts.parse(tokenString)
	if err != nil {
		ts.logger.Debug("token verification failed: %v", err)
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func (ts *HMACTokenService) parse(tokenString string) (*SessionClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.clock),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("unable to decode claims")
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return claims, nil
}
