package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/preiskampf/preiskampf/internal/auth"
	"github.com/preiskampf/preiskampf/internal/db"
	"github.com/preiskampf/preiskampf/internal/logging"
	"github.com/preiskampf/preiskampf/internal/validator"
	"github.com/preiskampf/preiskampf/internal/worker"
)

const msgUnexpected = "Ein unerwarteter Fehler ist aufgetreten"

var ErrInvalidActivationToken = errors.New("invalid activation token")

type AuthService struct {
	pool *db.DualPool
	// custo do bcrypt; os testes baixam para bcrypt.MinCost
	cost int
}

func NewAuthService(pool *db.DualPool) *AuthService {
	return &AuthService{pool: pool, cost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Email    string
	Password string
}

type RegisterOutput struct {
	Success bool
	Error   string
	User    auth.SessionUser
}

// Register cria a conta inativa e agenda o e-mail de ativação na mesma
// transação.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) RegisterOutput {
	email := validator.NormalizeEmail(input.Email)

	validation := validator.Validate(validator.RegistrationForm{Email: email, Password: input.Password})
	if !validation.Valid {
		return RegisterOutput{Error: validation.Message()}
	}

	if _, err := s.pool.Queries().GetUserByEmail(ctx, email); err == nil {
		return RegisterOutput{Error: fmt.Sprintf("Ein Benutzer mit der Email %q existiert bereits.", email)}
	} else if !errors.Is(err, sql.ErrNoRows) {
		logging.AddToEvent(ctx, slog.String("register_error", err.Error()))
		return RegisterOutput{Error: msgUnexpected}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return RegisterOutput{Error: msgUnexpected}
	}

	token := uuid.NewString()

	var user db.User
	err = s.pool.WithTx(ctx, func(q *db.Queries) error {
		var err error
		user, err = q.CreateUser(ctx, db.CreateUserParams{
			Email:             email,
			PasswordHash:      string(hash),
			ConfirmationToken: sql.NullString{String: token, Valid: true},
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		_, err = worker.EnqueueRegistrationEmail(ctx, q, user.ID, worker.RegistrationEmailPayload{
			Email: email,
			Token: token,
		})
		return err
	})
	if err != nil {
		logging.AddToEvent(ctx, slog.String("register_error", err.Error()))
		return RegisterOutput{Error: "Der Benutzer konnte nicht erstellt werden."}
	}

	logging.AddToEvent(ctx, slog.Int64("registered_user_id", user.ID))
	return RegisterOutput{Success: true, User: SessionUserFrom(user)}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	Success bool
	Error   string
	User    auth.SessionUser
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) LoginOutput {
	email := validator.NormalizeEmail(input.Email)
	if input.Password == "" {
		return LoginOutput{Error: "Bitte geben Sie ein gültiges Passwort an."}
	}
	if email == "" {
		return LoginOutput{Error: "Bitte geben Sie eine gültige Email an."}
	}

	user, err := s.pool.Queries().GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return LoginOutput{Error: "Der Benutzer konnte nicht gefunden werden."}
	}
	if err != nil {
		logging.AddToEvent(ctx, slog.String("login_error", err.Error()))
		return LoginOutput{Error: msgUnexpected}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return LoginOutput{Error: "Der Benutzer konnte nicht gefunden werden."}
	}

	return LoginOutput{Success: true, User: SessionUserFrom(user)}
}

// Activate consome o token de confirmação.
func (s *AuthService) Activate(ctx context.Context, token string) (db.User, error) {
	if token == "" {
		return db.User{}, ErrInvalidActivationToken
	}
	user, err := s.pool.QueriesWrite().ActivateUser(ctx, token)
	if errors.Is(err, sql.ErrNoRows) {
		return db.User{}, ErrInvalidActivationToken
	}
	if err != nil {
		return db.User{}, fmt.Errorf("activate user: %w", err)
	}
	return user, nil
}

// CreateActiveUser é usado pelo comando create-user; não envia e-mail.
func (s *AuthService) CreateActiveUser(ctx context.Context, email, password string) (db.User, error) {
	email = validator.NormalizeEmail(email)
	validation := validator.Validate(validator.RegistrationForm{Email: email, Password: password})
	if !validation.Valid {
		return db.User{}, errors.New(validation.Message())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return db.User{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.pool.QueriesWrite().CreateUser(ctx, db.CreateUserParams{
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	})
	if err != nil {
		return db.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func SessionUserFrom(u db.User) auth.SessionUser {
	return auth.SessionUser{ID: u.ID, Email: u.Email, Username: u.Username}
}
