package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// RegisterAuthRoutes mounts the JSON auth surface on the given router.
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost).Name("register.post")
	app.Get(controller.Routes.VerifyEmail, controller.VerifyEmailGet).Name("verify-email.get")
	app.Post(controller.Routes.Login, controller.LoginPost).Name("login.post")
}

type AuthControllerRoutes struct {
	Register    string
	VerifyEmail string
	Login       string
}

type AuthController struct {
	Logger   Logger
	Repo     RepositoryManager
	Notifier Notifier
	Tokens   TokenService
	Routes   *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithControllerNotifier(notifier Notifier) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Notifier = notifier
		return c
	}
}

func WithControllerTokenService(tokens TokenService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = tokens
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register:    "/auth/register",
			VerifyEmail: "/auth/verify-email",
			Login:       "/auth/login",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Notifier == nil {
		panic("Missing Notifier in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in auth controller...")
	}

	return c
}

// RegistrationCreatePayload is the register request body.
type RegistrationCreatePayload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

// Validate enforces the boundary constraints: presence of every field, a
// plausible email shape, and the minimum password length. Nothing touches
// the store until these pass.
func (r RegistrationCreatePayload) Validate() error {
	if r.FirstName == "" || r.LastName == "" || r.Email == "" || r.Phone == "" || r.Password == "" {
		return validationError("All fields are required.")
	}

	if err := validation.Validate(r.Email, validation.Required, is.Email); err != nil {
		return validationError("Invalid email format.")
	}

	if err := validation.Validate(r.Password, validation.Required, validation.Length(8, 0)); err != nil {
		return validationError("Password must be at least 8 characters long.")
	}

	return nil
}

func (a *AuthController) RegisterPost(ctx *fiber.Ctx) error {
	payload := new(RegistrationCreatePayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return a.renderError(ctx, validationError("All fields are required."))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Debug("register user validate payload", "error", err)
		return a.renderError(ctx, err)
	}

	req := RegisterUserMessage{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Password:  payload.Password,
	}

	registerUser := NewRegisterUserHandler(a.Repo, a.Notifier).WithLogger(a.Logger)
	if err := registerUser.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("register user error", "error", err)
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered. Please check your email for verification link.",
	})
}

func (a *AuthController) VerifyEmailGet(ctx *fiber.Ctx) error {
	token := ctx.Query("token")

	verifyEmail := NewVerifyEmailHandler(a.Repo).WithLogger(a.Logger)
	if err := verifyEmail.Execute(ctx.Context(), VerifyEmailMessage{Token: token}); err != nil {
		a.Logger.Error("verify email error", "error", err)
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Email verified successfully.",
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.renderError(ctx, ErrInvalidCredentials)
	}

	if err := payload.Validate(); err != nil {
		// malformed input gets the same answer as a wrong password
		a.Logger.Debug("login validate payload", "error", err)
		return a.renderError(ctx, ErrInvalidCredentials)
	}

	var res *LoginUserResponse
	req := LoginUserMessage{
		Email:    payload.Email,
		Password: payload.Password,
		OnResponse: func(r *LoginUserResponse) {
			res = r
		},
	}

	login := NewLoginUserHandler(a.Repo, a.Tokens).WithLogger(a.Logger)
	if err := login.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("login error", "error", err)
		return a.renderError(ctx, err)
	}

	if res == nil {
		return a.renderError(ctx, goerrors.New("login produced no response", goerrors.CategoryInternal))
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful.",
		"token":   res.Token,
		"user":    res.User,
	})
}

func validationError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryValidation).
		WithCode(goerrors.CodeBadRequest)
}

// renderError maps domain errors to the documented status/message pairs.
// Anything unclassified is logged and reported as a generic server error so
// driver and stack details never reach a client.
func (a *AuthController) renderError(ctx *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "unexpected server error")
	}

	switch richErr.TextCode {
	case TextCodeDuplicateEmail:
		return a.renderMessage(ctx, fiber.StatusBadRequest, "Email already in use.")
	case TextCodeInvalidToken:
		return a.renderMessage(ctx, fiber.StatusBadRequest, "Invalid token.")
	case TextCodeInvalidCredentials:
		return a.renderMessage(ctx, fiber.StatusBadRequest, "Invalid credentials.")
	case TextCodeEmailNotVerified:
		return a.renderMessage(ctx, fiber.StatusForbidden, "Please verify your email before logging in.")
	case TextCodeNotificationFailed:
		return a.renderMessage(ctx, fiber.StatusInternalServerError, "Failed to send verification email. Please try again later.")
	}

	if richErr.Category == goerrors.CategoryValidation {
		return a.renderMessage(ctx, fiber.StatusBadRequest, richErr.Message)
	}

	a.Logger.Error("unhandled error at http boundary",
		"error", richErr.Message,
		"category", richErr.Category,
		"text_code", richErr.TextCode,
	)

	return a.renderMessage(ctx, fiber.StatusInternalServerError, "Server error. Please try again later.")
}

func (a *AuthController) renderMessage(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"message": message,
	})
}
