package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type LoginUserMessage struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	OnResponse func(*LoginUserResponse)
}

func (e LoginUserMessage) Type() string { return "user.login" }

// LoginUserResponse carries the minted session token and the account
// profile. User serializes without the password credential.
type LoginUserResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// LoginUserHandler authenticates a verified account and mints a session
// token. Unknown emails and wrong passwords produce the same error; the
// verified-state gate runs before the password comparison, so an unverified
// account gets its distinct error regardless of the password submitted.
type LoginUserHandler struct {
	repo   RepositoryManager
	tokens TokenService
	logger Logger
}

func NewLoginUserHandler(repo RepositoryManager, tokens TokenService) *LoginUserHandler {
	return &LoginUserHandler{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (h *LoginUserHandler) WithLogger(logger Logger) *LoginUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *LoginUserHandler) Execute(ctx context.Context, event LoginUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during login")
	default:
		return h.execute(ctx, event)
	}
}

func (h *LoginUserHandler) execute(ctx context.Context, event LoginUserMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrInvalidCredentials
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during login")
	}

	if !CanLogin(user.State()) {
		return ErrEmailNotVerified
	}

	if err := ComparePasswordAndHash(event.Password, user.PasswordHash); err != nil {
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			if err2 := h.repo.Users().TrackAttemptedLogin(ctx, user); err2 != nil {
				h.logger.Warn("failed to track login attempt", "error", err2)
			}
			return ErrInvalidCredentials
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to compare password hash")
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign session token")
	}

	// tracking is best effort; a bookkeeping failure must not fail the login
	if err := h.repo.Users().TrackSuccessfulLogin(ctx, user); err != nil {
		h.logger.Warn("failed to track successful login", "error", err)
	}

	if event.OnResponse != nil {
		event.OnResponse(&LoginUserResponse{
			Token: token,
			User:  user,
		})
	}

	return nil
}
