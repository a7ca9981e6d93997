package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/config"
	"github.com/SergeyBogomolovv/order-delivery-service/internal/entities"

	"github.com/golang-jwt/jwt/v5"
)

const (
	grantClientCredentials = "client_credentials"
	grantRefreshToken      = "refresh_token"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    *int64 `json:"expires_in"`
}

// TokenManager хранит сервисный токен и обновляет его до истечения.
// Все проверки и обновления идут под одним мьютексом, поэтому одновременно
// в identity provider уходит не больше одного запроса.
type TokenManager struct {
	logger   *slog.Logger
	client   *http.Client
	tokenURL string

	clientID     string
	clientSecret string
	margin       time.Duration
	interval     time.Duration
	now          func() time.Time

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewTokenManager(logger *slog.Logger, cfg config.Keycloak) *TokenManager {
	return &TokenManager{
		logger:       logger.With(slog.String("component", "token_manager")),
		client:       &http.Client{Timeout: cfg.Timeout},
		tokenURL:     strings.TrimRight(cfg.URL, "/") + "/realms/" + url.PathEscape(cfg.Realm) + "/protocol/openid-connect/token",
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		margin:       cfg.RefreshMargin,
		interval:     cfg.CheckInterval,
		now:          time.Now,
	}
}

// Start получает первый токен и запускает фоновое обновление.
// Ошибка первого запроса только логируется: следующая попытка будет на ближайшем тике.
func (m *TokenManager) Start(ctx context.Context) error {
	m.mu.Lock()
	if err := m.fetch(ctx); err != nil {
		m.logger.Error("failed to fetch initial token", slog.Any("error", err))
	}
	m.mu.Unlock()

	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.loop(ctx)
	return nil
}

// Close останавливает фоновое обновление и ждет его завершения.
func (m *TokenManager) Close() error {
	if m.cancel == nil {
		return nil
	}
	m.cancel()
	<-m.done
	return nil
}

func (m *TokenManager) loop(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			if m.expiringLocked() {
				m.logger.Info("token is about to expire, renewing")
				if err := m.renewLocked(ctx); err != nil {
					m.logger.Error("failed to renew token", slog.Any("error", err))
				}
			}
			m.mu.Unlock()
		}
	}
}

// Token возвращает сервисный токен, до истечения которого больше refreshMargin.
// Пока идет обновление, вызов ждет.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.expiringLocked() {
		if err := m.renewLocked(ctx); err != nil {
			m.logger.Error("failed to renew token", slog.Any("error", err))
		}
	}

	if m.accessToken == "" || !m.now().Before(m.expiresAt) {
		return "", entities.ErrNoToken
	}
	return m.accessToken, nil
}

func (m *TokenManager) expiringLocked() bool {
	return m.expiresAt.Sub(m.now()) < m.margin
}

func (m *TokenManager) renewLocked(ctx context.Context) error {
	if m.refreshToken != "" {
		err := m.refresh(ctx)
		if err == nil {
			return nil
		}
		m.logger.Warn("failed to refresh token, fetching new one", slog.Any("error", err))
	}
	return m.fetch(ctx)
}

func (m *TokenManager) fetch(ctx context.Context) error {
	form := url.Values{
		"grant_type":    {grantClientCredentials},
		"client_id":     {m.clientID},
		"client_secret": {m.clientSecret},
	}
	if err := m.requestToken(ctx, grantClientCredentials, form); err != nil {
		return err
	}
	m.logger.Info("fetched new token", slog.Duration("expires_in", m.expiresAt.Sub(m.now())))
	return nil
}

func (m *TokenManager) refresh(ctx context.Context) error {
	form := url.Values{
		"grant_type":    {grantRefreshToken},
		"client_id":     {m.clientID},
		"client_secret": {m.clientSecret},
		"refresh_token": {m.refreshToken},
	}
	if err := m.requestToken(ctx, grantRefreshToken, form); err != nil {
		return err
	}
	m.logger.Info("refreshed token", slog.Duration("expires_in", m.expiresAt.Sub(m.now())))
	return nil
}

func (m *TokenManager) requestToken(ctx context.Context, grant string, form url.Values) (err error) {
	defer func() {
		result := "success"
		if err != nil {
			result = "error"
		}
		tokenRequests.WithLabelValues(grant, result).Inc()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("failed to decode token response: %w", err)
	}

	return m.apply(tr)
}

func (m *TokenManager) apply(tr tokenResponse) error {
	if tr.AccessToken == "" {
		return errors.New("token response has no access_token")
	}

	var expiresAt time.Time
	if tr.ExpiresIn != nil {
		expiresAt = m.now().Add(time.Duration(*tr.ExpiresIn) * time.Second)
	} else {
		exp, err := expiryFromJWT(tr.AccessToken)
		if err != nil {
			return err
		}
		expiresAt = exp
	}

	m.accessToken = tr.AccessToken
	m.refreshToken = tr.RefreshToken
	m.expiresAt = expiresAt
	return nil
}

// expiryFromJWT читает claim exp без проверки подписи: токен выдан нам самим провайдером.
func expiryFromJWT(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse access token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, errors.New("access token has no expires_in and no exp claim")
	}
	return exp.Time, nil
}
