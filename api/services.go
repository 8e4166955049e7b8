package api

import (
	"github.com/uptrace/bun"

	"github.com/goliatone/go-enroll/auth"
	"github.com/goliatone/go-enroll/catalog"
	"github.com/goliatone/go-enroll/internal/config"
)

// Services is the application context. It is built once at startup and
// handed to every controller; nothing in the HTTP layer reaches for globals.
type Services struct {
	Config *config.Config
	Logger auth.Logger

	Repo          auth.RepositoryManager
	Tokens        auth.TokenService
	Gate          *auth.Gate
	Authenticator *auth.Authenticator
	Registration  *auth.RegisterUserHandler
	ResetRequest  *auth.InitializePasswordResetHandler
	ResetFinalize *auth.FinalizePasswordResetHandler
	Approvals     auth.UserStateMachine

	Programs     *catalog.Programs
	Enrollments  *catalog.Enrollments
	ProgramTabs  *catalog.ProgramTabs
	StatTabs     *catalog.StatTabs
	Content      *catalog.Content
	StatusChecks *catalog.StatusChecks
}

// NewServices wires the auth core and the catalog over db. A missing
// signing key fails here.
func NewServices(cfg *config.Config, db *bun.DB, notifier auth.ResetNotifier, logger auth.Logger) (*Services, error) {
	tokens, err := auth.NewTokenServiceFromConfig(cfg, auth.WithTokenLogger(logger))
	if err != nil {
		return nil, err
	}

	repo := auth.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		return nil, err
	}

	hasher := auth.NewBcryptHasher(cfg.PasswordHashCost)
	timeout := cfg.StoreTimeout
	store := catalog.NewStore(db).WithTimeout(timeout)

	return &Services{
		Config: cfg,
		Logger: logger,

		Repo:   repo,
		Tokens: tokens,
		Gate:   auth.NewGate(tokens, repo.Users(), auth.WithGateLogger(logger)),
		Authenticator: auth.NewAuthenticator(repo.Users(), hasher, tokens,
			auth.WithAuthenticatorLogger(logger),
			auth.WithAuthenticatorTimeout(timeout),
		),
		Registration: auth.NewRegisterUserHandler(repo, hasher, tokens, cfg).
			WithLogger(logger).
			WithPhoneRegion(cfg.DefaultPhoneRegion).
			WithHashidIDs(cfg.DeterministicUserIDs).
			WithTimeout(timeout),
		ResetRequest: auth.NewInitializePasswordResetHandler(repo, notifier, cfg).
			WithLogger(logger).
			WithTimeout(timeout),
		ResetFinalize: auth.NewFinalizePasswordResetHandler(repo, hasher).
			WithLogger(logger).
			WithTimeout(timeout),
		Approvals: auth.NewUserStateMachine(repo, auth.WithStateMachineLogger(logger)),

		Programs:     catalog.NewPrograms(store),
		Enrollments:  catalog.NewEnrollments(store),
		ProgramTabs:  catalog.NewProgramTabs(store),
		StatTabs:     catalog.NewStatTabs(store),
		Content:      catalog.NewContent(store),
		StatusChecks: catalog.NewStatusChecks(store),
	}, nil
}
