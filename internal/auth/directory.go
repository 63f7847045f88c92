// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("inkpost/auth")

// Client-facing directory messages.
const (
	msgAllFieldsRequired   = "All fields are required"
	msgLoginFieldsRequired = "Email and password are required"
	msgEmailRequired       = "Email field cannot be empty"
	msgInvalidEmailFormat  = "Invalid email format"
	msgAlreadyRegistered   = "User already registered.Please login"
	msgPasswordMismatch    = "Password and Confirm Password do not match"
	msgUserDoesNotExist    = "User does not exist"
	msgNoAccountForEmail   = "User with this email does not exist"
	msgInvalidCredentials  = "Invalid email or password"
	msgResetDisabled       = "Password reset is disabled"
)

// CredentialHasher hashes and verifies passwords. CredentialStore implements it.
type CredentialHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hash string) (bool, error)
	NeedsUpgrade(hash string) bool
}

// TokenIssuer mints session tokens. TokenService implements it.
type TokenIssuer interface {
	Issue(subject, displayName string) (string, error)
}

// RegisterRequest holds the registration form fields.
type RegisterRequest struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// CompleteResetRequest holds the password reset form fields.
type CompleteResetRequest struct {
	Email           string
	NewPassword     string
	ConfirmPassword string
}

// Session is the result of a successful login.
type Session struct {
	Token   string
	Account *Account
}

// Directory registers accounts, authenticates them and resets their passwords.
type Directory struct {
	accounts             AccountRepository
	credentials          CredentialHasher
	tokens               TokenIssuer
	logger               *slog.Logger
	metrics              *Metrics
	allowUnverifiedReset bool
}

// DirectoryOption configures a Directory.
type DirectoryOption func(*Directory)

// WithLogger sets the directory logger.
func WithLogger(logger *slog.Logger) DirectoryOption {
	return func(d *Directory) {
		d.logger = logger
	}
}

// WithDirectoryMetrics records auth events to m.
func WithDirectoryMetrics(m *Metrics) DirectoryOption {
	return func(d *Directory) {
		d.metrics = m
	}
}

// WithUnverifiedReset enables or disables the proof-less password reset flow.
// It is enabled by default.
func WithUnverifiedReset(enabled bool) DirectoryOption {
	return func(d *Directory) {
		d.allowUnverifiedReset = enabled
	}
}

// NewDirectory creates a Directory.
func NewDirectory(accounts AccountRepository, credentials CredentialHasher, tokens TokenIssuer, opts ...DirectoryOption) (*Directory, error) {
	if accounts == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("account repository is required")
	}
	if credentials == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("credential hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("token issuer is required")
	}

	d := &Directory{
		accounts:             accounts,
		credentials:          credentials,
		tokens:               tokens,
		logger:               slog.New(slog.DiscardHandler),
		allowUnverifiedReset: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("logger cannot be nil")
	}
	return d, nil
}

// Register creates an account. Checks run in a fixed order and the first
// failure is returned; nothing is persisted unless every check passes.
func (d *Directory) Register(ctx context.Context, req RegisterRequest) (account *Account, err error) {
	ctx, span := tracer.Start(ctx, "auth.register")
	defer func() { d.finish(span, "register", err) }()

	if req.Name == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return nil, oops.Code(CodeFieldsRequired).Errorf("%s", msgAllFieldsRequired)
	}
	if err := ValidateEmailFormat(req.Email); err != nil {
		return nil, err
	}
	if err := ValidateName(req.Name); err != nil {
		return nil, err
	}

	email := NormalizeEmail(req.Email)
	_, lookupErr := d.accounts.GetByEmail(ctx, email)
	switch {
	case lookupErr == nil:
		return nil, alreadyRegistered(email)
	case !errors.Is(lookupErr, ErrNotFound):
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get account by email").
			Wrap(lookupErr)
	}

	if req.Password != req.ConfirmPassword {
		return nil, oops.Code(CodePasswordMismatch).Errorf("%s", msgPasswordMismatch)
	}
	if err := ValidatePasswordStrength(req.Password); err != nil {
		return nil, err
	}

	hash, err := d.credentials.Hash(ctx, req.Password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err = NewAccount(req.Name, email, hash)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "build account").
			Wrap(err)
	}

	if err := d.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, alreadyRegistered(email)
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create account").
			Wrap(err)
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("account.id", account.ID.String()))
	d.logger.InfoContext(ctx, "account registered", "account", account)
	return account, nil
}

// finish records the outcome of one directory operation.
func (d *Directory) finish(span trace.Span, operation string, err error) {
	d.metrics.RecordEvent(operation, err)
	if err != nil {
		span.SetAttributes(
			attribute.String("auth.error_code", ErrorCode(err)),
			attribute.String("auth.error_kind", string(KindOf(err))),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func alreadyRegistered(email string) error {
	return oops.Code(CodeAlreadyRegistered).With("email", email).Errorf("%s", msgAlreadyRegistered)
}

// Authenticate verifies an email and password and issues a session token.
// Accounts stored with a legacy or outdated hash are rehashed on success.
func (d *Directory) Authenticate(ctx context.Context, email, password string) (session *Session, err error) {
	ctx, span := tracer.Start(ctx, "auth.login")
	defer func() { d.finish(span, "login", err) }()

	if email == "" || password == "" {
		return nil, oops.Code(CodeFieldsRequired).Errorf("%s", msgLoginFieldsRequired)
	}
	if !isEmail(email) {
		return nil, oops.Code(CodeEmailInvalid).Errorf("%s", msgInvalidEmailFormat)
	}

	email = NormalizeEmail(email)
	account, err := d.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code(CodeAccountNotFound).With("email", email).Errorf("%s", msgUserDoesNotExist)
		}
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}

	valid, err := d.credentials.Verify(ctx, password, account.CredentialHash)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			With("account_id", account.ID.String()).
			Wrap(err)
	}
	if !valid {
		return nil, oops.Code(CodeInvalidCredentials).With("email", email).Errorf("%s", msgInvalidCredentials)
	}

	if d.credentials.NeedsUpgrade(account.CredentialHash) {
		d.upgradeCredential(ctx, account, password)
	}

	token, err := d.tokens.Issue(account.ID.String(), account.DisplayName)
	if err != nil {
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue token").
			Wrap(err)
	}

	return &Session{Token: token, Account: account}, nil
}

// upgradeCredential rehashes with current parameters. The write only lands
// while the stored hash is still the one just verified. Failures are logged
// and never fail the login.
func (d *Directory) upgradeCredential(ctx context.Context, account *Account, password string) {
	hash, err := d.credentials.Hash(ctx, password)
	var replaced bool
	if err == nil {
		replaced, err = d.accounts.ReplaceCredential(ctx, account.Email, account.CredentialHash, hash)
	}
	if err != nil {
		d.logger.WarnContext(ctx, "best-effort credential upgrade failed",
			"operation", "upgrade_credential",
			"account_id", account.ID.String(),
			"error", err.Error())
		return
	}
	if !replaced {
		d.logger.InfoContext(ctx, "credential changed during upgrade, skipped",
			"account_id", account.ID.String())
		return
	}
	account.CredentialHash = hash
	d.logger.InfoContext(ctx, "credential upgraded", "account_id", account.ID.String())
}

// BeginReset acknowledges a password reset request for an existing account.
// No code or token is issued; CompleteReset only needs the email address.
func (d *Directory) BeginReset(ctx context.Context, email string) (err error) {
	ctx, span := tracer.Start(ctx, "auth.begin_reset")
	defer func() { d.finish(span, "begin_reset", err) }()

	if !d.allowUnverifiedReset {
		return resetDisabled()
	}
	if email == "" {
		return oops.Code(CodeFieldsRequired).Errorf("%s", msgEmailRequired)
	}
	if !isEmail(email) {
		return oops.Code(CodeEmailInvalid).Errorf("%s", msgInvalidEmailFormat)
	}

	email = NormalizeEmail(email)
	if _, err := d.accounts.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code(CodeAccountNotFound).With("email", email).Errorf("%s", msgNoAccountForEmail)
		}
		return oops.Code("AUTH_RESET_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}

	d.logger.InfoContext(ctx, "password reset requested", "email", email)
	return nil
}

// CompleteReset replaces the password of the account with the given email.
func (d *Directory) CompleteReset(ctx context.Context, req CompleteResetRequest) (err error) {
	ctx, span := tracer.Start(ctx, "auth.complete_reset")
	defer func() { d.finish(span, "complete_reset", err) }()

	if !d.allowUnverifiedReset {
		return resetDisabled()
	}
	if req.Email == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		return oops.Code(CodeFieldsRequired).Errorf("%s", msgAllFieldsRequired)
	}
	if req.NewPassword != req.ConfirmPassword {
		return oops.Code(CodePasswordMismatch).Errorf("%s", msgPasswordMismatch)
	}
	if err := ValidatePasswordStrength(req.NewPassword); err != nil {
		return err
	}

	hash, err := d.credentials.Hash(ctx, req.NewPassword)
	if err != nil {
		return oops.Code("AUTH_RESET_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	email := NormalizeEmail(req.Email)
	if err := d.accounts.UpdateCredential(ctx, email, hash); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code(CodeAccountNotFound).With("email", email).Errorf("%s", msgNoAccountForEmail)
		}
		return oops.Code("AUTH_RESET_FAILED").
			With("operation", "update credential").
			Wrap(err)
	}

	d.logger.InfoContext(ctx, "password reset completed", "email", email)
	return nil
}

func resetDisabled() error {
	return oops.Code(CodeResetDisabled).Errorf("%s", msgResetDisabled)
}
