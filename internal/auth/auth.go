// Package auth emite e valida o cookie de sessão assinado (JWT HS256).
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "preiskampf_auth_cookie"
	TokenTTL   = 30 * 24 * time.Hour
	issuer     = "preiskampf"
)

var ErrInvalidToken = errors.New("auth: invalid token")

// SessionUser é o usuário carregado no cookie. Não substitui a consulta ao
// banco quando dados atualizados são necessários.
type SessionUser struct {
	ID       int64
	Email    string
	Username string
}

func (u SessionUser) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

type claims struct {
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Keys guarda o segredo de assinatura. É criado no boot a partir da config e
// injetado em quem precisa emitir ou validar tokens.
type Keys struct {
	secret []byte
	now    func() time.Time
}

func NewKeys(secret string) (*Keys, error) {
	if secret == "" {
		return nil, errors.New("auth: empty secret")
	}
	return &Keys{secret: []byte(secret), now: time.Now}, nil
}

func (k *Keys) Encode(user SessionUser) (string, error) {
	now := k.now()
	c := claims{
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (k *Keys) Decode(tokenString string) (SessionUser, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		return k.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(k.now),
	)
	if err != nil {
		return SessionUser{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return SessionUser{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return SessionUser{}, ErrInvalidToken
	}
	return SessionUser{ID: id, Email: c.Email, Username: c.Username}, nil
}

// SetCookie grava o token de user na resposta.
func (k *Keys) SetCookie(w http.ResponseWriter, user SessionUser, secure bool) error {
	token, err := k.Encode(user)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  k.now().Add(TokenTTL),
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// FromRequest lê e valida o cookie. Cookie ausente ou inválido retorna ok=false.
func (k *Keys) FromRequest(r *http.Request) (SessionUser, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return SessionUser{}, false
	}
	user, err := k.Decode(cookie.Value)
	if err != nil {
		return SessionUser{}, false
	}
	return user, true
}

func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
