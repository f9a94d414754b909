package dto

// RegisterRequest entrada para registro de usuario.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name" validate:"max=255"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenObtainRequest credenciales para obtener el par de tokens.
type TokenObtainRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPairResponse par access/refresh.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenRefreshRequest entrada para renovar el token de acceso.
type TokenRefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// AccessTokenResponse nuevo token de acceso.
type AccessTokenResponse struct {
	Access string `json:"access"`
}
