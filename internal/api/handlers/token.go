package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/playmatatu/chaospool/internal/game"
	"github.com/playmatatu/chaospool/internal/ws"
)

var ErrInvalidTableToken = errors.New("invalid table token")

// IssueTableToken signs a token that lets its holder open a websocket for
// spec until ttl elapses.
func IssueTableToken(secret string, spec ws.TableSpec, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     spec.ID,
		"seed":    spec.Seed,
		"zones":   spec.Settings.Zones,
		"portals": spec.Settings.Portals,
		"bumpers": spec.Settings.Bumpers,
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign table token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseTableToken validates tokenStr and returns the table it grants.
func ParseTableToken(secret, tokenStr string) (ws.TableSpec, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ws.TableSpec{}, ErrInvalidTableToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ws.TableSpec{}, ErrInvalidTableToken
	}
	id, _ := claims["sub"].(string)
	seed, ok := claims["seed"].(float64)
	if id == "" || !ok {
		return ws.TableSpec{}, ErrInvalidTableToken
	}
	zones, _ := claims["zones"].(bool)
	portals, _ := claims["portals"].(bool)
	bumpers, _ := claims["bumpers"].(bool)

	return ws.TableSpec{
		ID:       id,
		Seed:     int64(seed),
		Settings: game.Settings{Zones: zones, Portals: portals, Bumpers: bumpers},
	}, nil
}
