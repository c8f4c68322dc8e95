package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/MikeRez0/trucksy/internal/adapter/config"
	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
)

const tokenTTL = 24 * time.Hour

// PasetoToken verifies v4.local tokens issued by the identity service.
// Tokens carry the user id under the "payload" claim.
type PasetoToken struct {
	parser paseto.Parser
	key    paseto.V4SymmetricKey
	now    func() time.Time
}

// New loads the shared key. An empty key generates a random one, which only
// suits local runs where this service also issues the tokens.
func New(cfg *config.Auth) (*PasetoToken, error) {
	key := paseto.NewV4SymmetricKey()
	if cfg.TokenKey != "" {
		var err error
		key, err = paseto.V4SymmetricKeyFromHex(cfg.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("bad token key: %w", err)
		}
	}

	return &PasetoToken{
		parser: paseto.NewParser(),
		key:    key,
		now:    time.Now,
	}, nil
}

var _ port.TokenService = (*PasetoToken)(nil)

func (p *PasetoToken) CreateToken(userID uint64) (string, error) {
	token := paseto.NewToken()
	now := p.now()
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(tokenTTL))

	if err := token.Set("payload", port.TokenPayload{UserID: userID}); err != nil {
		return "", domain.ErrTokenCreation
	}
	return token.V4Encrypt(p.key, nil), nil
}

func (p *PasetoToken) VerifyToken(token string) (*port.TokenPayload, error) {
	parsedToken, err := p.parser.ParseV4Local(p.key, token, nil)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	payload := port.TokenPayload{}
	err = parsedToken.Get("payload", &payload)
	if err != nil || payload.UserID == 0 {
		return nil, domain.ErrInvalidToken
	}
	return &payload, nil
}
