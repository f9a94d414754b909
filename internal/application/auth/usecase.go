package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/validation"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
	// BcryptCost costo del hash; 0 usa bcrypt.DefaultCost.
	BcryptCost int
}

// AuthUseCase casos de uso de autenticación: registro, emisión y renovación de
// tokens y resolución del usuario a partir del header Authorization.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	if jwtCfg.BcryptCost == 0 {
		jwtCfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, now: time.Now}
}

// RegisterUser crea un usuario: valida, hashea password con bcrypt y persiste.
// Email duplicado o password corta -> *domain.ValidationError.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errEmailTaken()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.jwtCfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	name := in.Name
	if name == "" {
		name = in.Email
	}
	user := &entity.User{
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		IsActive:     true,
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errEmailTaken()
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

// ObtainToken verifica email/password y emite el par access/refresh.
func (uc *AuthUseCase) ObtainToken(ctx context.Context, in dto.TokenObtainRequest) (*dto.TokenPairResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	access, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, jwt.TypeAccess, uc.jwtCfg.Issuer, uc.jwtCfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, jwt.TypeRefresh, uc.jwtCfg.Issuer, uc.jwtCfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPairResponse{Access: access, Refresh: refresh}, nil
}

// RefreshToken emite un nuevo access a partir de un refresh válido y no expirado.
func (uc *AuthUseCase) RefreshToken(ctx context.Context, in dto.TokenRefreshRequest) (*dto.AccessTokenResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, in.Refresh, jwt.TypeRefresh)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	access, err := jwt.Generate(uc.jwtCfg.Secret, claims.UserID, jwt.TypeAccess, uc.jwtCfg.Issuer, uc.jwtCfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	return &dto.AccessTokenResponse{Access: access}, nil
}

// Authenticate resuelve el usuario de un header "Bearer <token>".
// Cualquier fallo (header ausente o mal formado, token inválido o expirado,
// usuario inexistente o inactivo) devuelve domain.ErrUnauthenticated.
func (uc *AuthUseCase) Authenticate(ctx context.Context, authHeader string) (*entity.User, error) {
	parts := strings.SplitN(strings.TrimSpace(authHeader), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, domain.ErrUnauthenticated
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token, jwt.TypeAccess)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

func errEmailTaken() error {
	return domain.NewValidationError("email", "ya existe un usuario con este email.")
}

// normalizeEmail recorta espacios y pasa el dominio a minúsculas.
func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}
