package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

type contextKey string

const (
	// ContextKeyAssignee is the key for storing the authenticated assignee
	// in the request context.
	ContextKeyAssignee contextKey = "assignee"
)

// AssigneeSource resolves bearer tokens. Satisfied by the orchestrator.
type AssigneeSource interface {
	AssigneeByToken(token string) (*domain.Assignee, error)
}

// AuthMiddleware handles Bearer token authentication.
type AuthMiddleware struct {
	assignees AssigneeSource
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(assignees AssigneeSource) *AuthMiddleware {
	return &AuthMiddleware{
		assignees: assignees,
	}
}

// Authenticate validates the Bearer token and adds the assignee to the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		assignee, err := m.assignees.AssigneeByToken(token)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidToken) {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyAssignee, assignee)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAssigneeFromContext retrieves the authenticated assignee from the
// request context.
func GetAssigneeFromContext(ctx context.Context) (*domain.Assignee, error) {
	assignee, ok := ctx.Value(ContextKeyAssignee).(*domain.Assignee)
	if !ok || assignee == nil {
		return nil, domain.ErrInvalidToken
	}
	return assignee, nil
}
