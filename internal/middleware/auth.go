package middleware

import (
	"net/http"

	"github.com/SergeyBogomolovv/order-delivery-service/internal/auth"
)

// Bearer кладет токен вызывающего в контекст, чтобы исходящие запросы шли от его имени.
// Токен не проверяется: это делает сервис, который его получит.
func Bearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := auth.ParseBearer(r.Header.Get("Authorization")); ok {
			r = r.WithContext(auth.WithBearer(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}
