package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

const (
	// RegistrationPendingApproval is reported for accounts that cannot log in yet
	RegistrationPendingApproval = "pending_approval"
	// RegistrationApproved is reported for accounts that are active immediately
	RegistrationApproved = "approved"
)

type RegisterUserMessage struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Age       *int   `json:"age,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	Password  string `json:"password"`
	AdminCode string `json:"admin_code,omitempty"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserResponse struct {
	*Session
	Status string `json:"status"`
}

type RegisterUserHandler struct {
	repo        RepositoryManager
	hasher      PasswordHasher
	tokens      TokenService
	adminCode   string
	phoneRegion string
	useHashid   bool
	timeout     time.Duration
	logger      Logger
}

func NewRegisterUserHandler(repo RepositoryManager, hasher PasswordHasher, tokens TokenService, cfg Config) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:        repo,
		hasher:      hasher,
		tokens:      tokens,
		adminCode:   cfg.GetAdminRegistrationCode(),
		phoneRegion: "US",
		timeout:     10 * time.Second,
		logger:      defLogger{},
	}
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	h.logger = resolveLogger(logger)
	return h
}

// WithPhoneRegion sets the region used to parse numbers without a country code
func (h *RegisterUserHandler) WithPhoneRegion(region string) *RegisterUserHandler {
	if region = strings.ToUpper(strings.TrimSpace(region)); region != "" {
		h.phoneRegion = region
	}
	return h
}

// WithHashidIDs derives user ids from the email instead of generating them
func (h *RegisterUserHandler) WithHashidIDs(enabled bool) *RegisterUserHandler {
	h.useHashid = enabled
	return h
}

func (h *RegisterUserHandler) WithTimeout(d time.Duration) *RegisterUserHandler {
	if d > 0 {
		h.timeout = d
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*RegisterUserResponse, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*RegisterUserResponse, error) {
	role, err := ParseRole(event.Role)
	if err != nil {
		return nil, err
	}

	switch role {
	case RoleSuperAdmin:
		return nil, ErrRoleNotRegistrable
	case RoleAdmin:
		if !h.validAdminCode(event.AdminCode) {
			return nil, ErrInvalidAdminCode
		}
	case RoleStudent:
	}

	phone, err := h.normalizePhone(event.Phone)
	if err != nil {
		return nil, err
	}

	hash, err := h.hasher.Hash(event.Password)
	if err != nil {
		return nil, internalError(err, "failed to hash password")
	}

	user := &User{
		Email:        strings.TrimSpace(event.Email),
		Name:         strings.TrimSpace(event.Name),
		Age:          event.Age,
		Phone:        phone,
		Role:         role,
		Status:       role.InitialStatus(),
		PasswordHash: hash,
	}

	if h.useHashid {
		if id, err := hashid.NewUUID(user.Email); err == nil {
			user.ID = id
		}
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := h.repo.Users().RegisterTx(ctx, tx, user)
		return err
	})
	if err != nil {
		if goerrors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, internalError(err, "user registration failed")
	}

	token, err := h.tokens.Issue(user.ID.String(), 0)
	if err != nil {
		return nil, internalError(err, "failed to issue access token")
	}

	h.logger.Info("registered user %s with role %s", user.ID, user.Role)

	status := RegistrationPendingApproval
	if user.IsApproved() {
		status = RegistrationApproved
	}

	return &RegisterUserResponse{
		Session: newSession(user, token),
		Status:  status,
	}, nil
}

func (h *RegisterUserHandler) validAdminCode(code string) bool {
	if h.adminCode == "" || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(h.adminCode)) == 1
}

func (h *RegisterUserHandler) normalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	num, err := phonenumbers.Parse(raw, h.phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", goerrors.New("invalid phone number", goerrors.CategoryValidation).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode("INVALID_PHONE").
			WithMetadata(map[string]any{"field": "phone"})
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
