package auth

import (
	"context"
	"strings"
)

type bearerKey struct{}

// WithBearer кладет в ctx собственный токен вызывающего.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func BearerFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(bearerKey{}).(string)
	return token, ok && token != ""
}

// ParseBearer достает токен из значения заголовка Authorization.
func ParseBearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

type ServiceTokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenSource выбирает токен для исходящих запросов: токен пользователя из
// контекста, если он есть, иначе сервисный токен.
type TokenSource struct {
	service ServiceTokenProvider
}

func NewTokenSource(service ServiceTokenProvider) *TokenSource {
	return &TokenSource{service: service}
}

func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if token, ok := BearerFromContext(ctx); ok {
		return token, nil
	}
	return s.service.Token(ctx)
}
