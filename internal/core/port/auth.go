package port

type TokenPayload struct {
	UserID uint64
}

//go:generate mockgen -source=auth.go -destination=mock/auth.go -package=mock
type TokenService interface {
	CreateToken(userID uint64) (string, error)
	VerifyToken(token string) (*TokenPayload, error)
}
