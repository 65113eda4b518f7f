package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/paws-pos/internal/application/dto"
	"github.com/jhoicas/paws-pos/internal/application/validate"
	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
	"github.com/jhoicas/paws-pos/internal/domain/repository"
	"github.com/jhoicas/paws-pos/pkg/clock"
	"github.com/jhoicas/paws-pos/pkg/jwt"
)

// maxPasswordBytes límite de entrada de bcrypt; el exceso se ignora al hashear y al verificar.
const maxPasswordBytes = 72

// TokenType valor de token_type en la respuesta de login.
const TokenType = "bearer"

// Config parámetros del caso de uso de auth.
type Config struct {
	JWT        jwt.Config
	BcryptCost int // 0 = bcrypt.DefaultCost
}

// AuthUseCase casos de uso de autenticación: registro, login y resolución de token.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	cfg       Config
	clock     clock.Clock
	log       zerolog.Logger
	dummyHash []byte
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, cfg Config, clk clock.Clock, log zerolog.Logger) *AuthUseCase {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	// Hash de relleno: un username desconocido cuesta lo mismo que un password incorrecto.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("paws-pos-dummy-password"), cfg.BcryptCost)
	return &AuthUseCase{
		userRepo:  userRepo,
		cfg:       cfg,
		clock:     clk,
		log:       log.With().Str("component", "auth").Logger(),
		dummyHash: dummy,
	}
}

// Register crea un usuario con el password hasheado. ErrConflict si el email o el username ya existen.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.Email = strings.ToLower(validate.Clean(in.Email))
	in.Username = validate.Clean(in.Username)
	in.FullName = validate.Clean(in.FullName)
	if err := validate.Struct(in).Err(); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = entity.RoleCashier
	}

	existing, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %q ya registrado", domain.ErrConflict, in.Username)
	}
	existing, err = uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email %q ya registrado", domain.ErrConflict, in.Email)
	}

	hash, err := bcrypt.GenerateFromPassword(truncatePassword(in.Password), uc.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    uc.clock.Now(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("username", user.Username).Str("role", user.Role).Msg("usuario registrado")
	return ToUserResponse(user), nil
}

// Login verifica username/password y emite un token. El usuario inactivo se reporta
// solo después de validar el password.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	in.Username = validate.Clean(in.Username)
	if err := validate.Struct(in).Err(); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(uc.dummyHash, truncatePassword(in.Password))
		uc.log.Warn().Str("username", in.Username).Msg("login fallido: usuario desconocido")
		return nil, fmt.Errorf("%w: usuario o contraseña incorrectos", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), truncatePassword(in.Password)); err != nil {
		uc.log.Warn().Str("username", in.Username).Msg("login fallido: contraseña incorrecta")
		return nil, fmt.Errorf("%w: usuario o contraseña incorrectos", domain.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	token, err := jwt.Generate(uc.cfg.JWT, user.Username, user.Role, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: TokenType}, nil
}

// Resolve valida el token contra el reloj inyectado y devuelve el usuario actual.
// No confía en los claims: el rol y el estado salen siempre del repositorio.
func (uc *AuthUseCase) Resolve(ctx context.Context, token string) (*entity.User, error) {
	claims, err := jwt.Parse(uc.cfg.JWT, token, uc.clock.Now())
	if err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) {
			return nil, fmt.Errorf("%w: token inválido o expirado", domain.ErrUnauthorized)
		}
		return nil, err
	}
	user, err := uc.userRepo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario del token no existe", domain.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

func truncatePassword(p string) []byte {
	b := []byte(p)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// ToUserResponse mapea la entidad a la salida pública (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
