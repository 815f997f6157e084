package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cafesync/internal/common/httpx"
	"cafesync/internal/common/logger"
	"cafesync/internal/domain"
)

var (
	ErrNoToken        = errors.New("authentication required")
	ErrNotWhitelisted = errors.New("employee is not whitelisted")
)

// Directory resolves an email to an active employee record.
type Directory interface {
	Lookup(ctx context.Context, email string) (domain.EmployeeRecord, error)
}

// localEmployee stands in for every caller when the gate is disabled.
var localEmployee = domain.EmployeeRecord{
	Email:       "local@cafesync.dev",
	Name:        "Local Developer",
	Role:        domain.RoleManager,
	Station:     domain.StationManagement,
	Permissions: []string{domain.PermAll},
	Status:      domain.EmployeeActive,
}

type Gate struct {
	verifier Verifier
	dir      Directory
	lg       *logger.Logger
}

// NewGate builds the auth gate. A nil verifier disables authentication.
func NewGate(v Verifier, dir Directory) *Gate {
	return &Gate{verifier: v, dir: dir, lg: logger.New("auth")}
}

func (g *Gate) Enabled() bool { return g.verifier != nil }

// TokenFrom reads a bearer token from the Authorization header or, for
// websocket upgrades, the token query parameter.
func TokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// Resolve verifies token and returns the whitelisted employee behind it.
func (g *Gate) Resolve(ctx context.Context, token string) (domain.EmployeeRecord, error) {
	if !g.Enabled() {
		return localEmployee, nil
	}
	if token == "" {
		return domain.EmployeeRecord{}, ErrNoToken
	}
	id, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return domain.EmployeeRecord{}, err
	}
	rec, err := g.dir.Lookup(ctx, id.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.EmployeeRecord{}, ErrNotWhitelisted
	}
	return rec, err
}

// Authenticate rejects requests without a valid employee token.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec, err := g.Resolve(r.Context(), TokenFrom(r))
		if err != nil {
			g.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithEmployee(r.Context(), rec)))
	})
}

func (g *Gate) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNoToken):
		httpx.Fail(w, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, ErrInvalidToken):
		g.lg.Debug("token_rejected", map[string]any{"path": r.URL.Path, "reason": err.Error()})
		httpx.Fail(w, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, ErrNotWhitelisted):
		g.lg.Warn("access_denied", map[string]any{"path": r.URL.Path})
		httpx.Fail(w, http.StatusForbidden, "Access denied: employee is not whitelisted")
	default:
		httpx.WriteError(w, r, err)
	}
}

// RequirePermission must run after Authenticate.
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			e, ok := EmployeeFrom(r.Context())
			if !ok {
				httpx.Fail(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !e.Can(perm) {
				httpx.Fail(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
