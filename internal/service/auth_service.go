package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"notevault/internal/domain"
	"notevault/internal/mail"
	"notevault/internal/repository"
	"notevault/internal/token"
)

const (
	usernameMinLen = 6
	usernameMaxLen = 24
	emailMaxLen    = 320

	resetTokenTTL = 10 * time.Minute

	// Register's confirmation mail is fire-and-forget; the goroutine gets
	// its own deadline since the request context is long gone.
	backgroundMailTimeout = 30 * time.Second
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z]{2,}$`)

// AuthService owns the credential lifecycle: registration, login, password
// reset and email confirmation. It is the only component that touches
// password hashes or token secrets.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, secret, newPassword string) (*domain.User, string, error)
	ConfirmEmail(ctx context.Context, secret string) (*domain.User, error)
	ResendConfirmEmail(ctx context.Context, email string) error
	UpdateDetails(ctx context.Context, id, username, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) (*domain.User, string, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type authService struct {
	users     repository.UserRepository
	issuer    *token.Issuer
	mailer    mail.Mailer
	logger    logrus.FieldLogger
	publicURL string
}

func NewAuthService(users repository.UserRepository, issuer *token.Issuer, mailer mail.Mailer, logger logrus.FieldLogger, publicURL string) AuthService {
	return &authService{
		users:     users,
		issuer:    issuer,
		mailer:    mailer,
		logger:    logger,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateUsername(username); err != nil {
		return nil, "", err
	}
	if err := validateEmail(email); err != nil {
		return nil, "", err
	}
	if password == "" {
		return nil, "", fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	confirmSecret, confirmHash, err := token.NewSecret()
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		ID:               uuid.NewString(),
		Username:         username,
		Email:            email,
		PasswordHash:     string(hash),
		Role:             domain.RoleUser,
		ConfirmTokenHash: confirmHash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	// Delivery failure must not fail or delay registration; it only gets logged.
	go s.sendConfirmMailDetached(user.Email, confirmSecret)

	session, err := s.issuer.IssueSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return sanitizeUser(user), session, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	session, err := s.issuer.IssueSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return sanitizeUser(user), session, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	secret, hash, err := token.NewSecret()
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, user.ID, hash, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	res, err := s.mailer.Send(ctx, mail.Message{
		To:      user.Email,
		Subject: "Password reset",
		Body: fmt.Sprintf(
			"You requested a password reset. Reset it here within %d minutes:\n\n%s/auth/resetpassword/%s",
			int(resetTokenTTL.Minutes()), s.publicURL, secret),
	})
	if err != nil {
		s.logger.WithError(err).WithField("email", user.Email).Warn("reset mail failed")
		return ErrMailDelivery
	}
	if len(res.Accepted) == 0 {
		return ErrMailDelivery
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, secret, newPassword string) (*domain.User, string, error) {
	if newPassword == "" {
		return nil, "", fmt.Errorf("%w: new password is required", ErrValidation)
	}

	user, err := s.users.ConsumeResetToken(ctx, token.HashSecret(secret), time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrTokenNotFoundOrExpired
		}
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, "", err
	}

	session, err := s.issuer.IssueSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return sanitizeUser(user), session, nil
}

func (s *authService) ConfirmEmail(ctx context.Context, secret string) (*domain.User, error) {
	user, err := s.users.ConsumeConfirmToken(ctx, token.HashSecret(secret))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenNotFoundOrExpired
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *authService) ResendConfirmEmail(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if user.IsEmailConfirmed {
		return ErrAlreadyConfirmed
	}

	secret, hash, err := token.NewSecret()
	if err != nil {
		return err
	}
	if err := s.users.SetConfirmToken(ctx, user.ID, hash); err != nil {
		return err
	}

	res, err := s.mailer.Send(ctx, s.confirmMessage(user.Email, secret))
	if err != nil {
		s.logger.WithError(err).WithField("email", user.Email).Warn("confirmation mail failed")
		return ErrMailDelivery
	}
	if len(res.Accepted) == 0 {
		return ErrMailDelivery
	}
	return nil
}

func (s *authService) UpdateDetails(ctx context.Context, id, username, email string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if err := s.users.UpdateDetails(ctx, id, username, email); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *authService) UpdatePassword(ctx context.Context, id, currentPassword, newPassword string) (*domain.User, string, error) {
	if currentPassword == "" || newPassword == "" {
		return nil, "", fmt.Errorf("%w: current and new password are required", ErrValidation)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, id, string(hash)); err != nil {
		return nil, "", err
	}

	session, err := s.issuer.IssueSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return sanitizeUser(user), session, nil
}

func (s *authService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *authService) confirmMessage(email, secret string) mail.Message {
	return mail.Message{
		To:      email,
		Subject: "Confirm your email",
		Body: fmt.Sprintf("Welcome! Confirm your email address here:\n\n%s/auth/confirmemail/%s",
			s.publicURL, secret),
	}
}

func (s *authService) sendConfirmMailDetached(email, secret string) {
	ctx, cancel := context.WithTimeout(context.Background(), backgroundMailTimeout)
	defer cancel()

	res, err := s.mailer.Send(ctx, s.confirmMessage(email, secret))
	if err != nil {
		s.logger.WithError(err).WithField("email", email).Warn("confirmation mail failed")
		return
	}
	if len(res.Accepted) == 0 {
		s.logger.WithField("email", email).Warn("confirmation mail accepted no recipients")
	}
}

func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return fmt.Errorf("%w: username must be %d-%d characters", ErrValidation, usernameMinLen, usernameMaxLen)
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if len(email) > emailMaxLen || !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: email address is not valid", ErrValidation)
	}
	return nil
}

// sanitizeUser strips the hash and token fields before a record leaves the
// service layer.
func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:               user.ID,
		Username:         user.Username,
		Email:            user.Email,
		Role:             user.Role,
		IsEmailConfirmed: user.IsEmailConfirmed,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
}
