package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/infrastructure/metrics"
	"github.com/agencydesk/creditledger/internal/usecase"
)

// Headers trusted when token authentication is disabled.
const (
	HeaderUserID   = "X-User-ID"
	HeaderAgencyID = "X-Agency-ID"
	HeaderRole     = "X-Role"

	tokenCookie = "token"
)

// Auth resolves the calling principal and stores it in the request context.
type Auth struct {
	resolver usecase.PrincipalResolver
	policy   usecase.AccessPolicy
	metrics  *metrics.Metrics
}

// NewAuth creates the auth middleware. A nil resolver trusts the X-User-ID,
// X-Agency-ID and X-Role headers set by an upstream gateway.
func NewAuth(resolver usecase.PrincipalResolver, policy usecase.AccessPolicy, m *metrics.Metrics) *Auth {
	return &Auth{resolver: resolver, policy: policy, metrics: m}
}

// Authenticate rejects requests without a valid principal.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.principal(r)
		if err != nil {
			a.fail("unauthenticated")
			zerolog.Ctx(r.Context()).Debug().Err(err).Msg("authentication failed")
			writeError(w, http.StatusUnauthorized, KindUnauthenticated, err.Error())
			return
		}

		ctx := domain.WithPrincipal(r.Context(), principal)
		zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("agency_id", principal.AgencyID).Str("user_id", principal.UserID)
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission rejects principals whose role lacks permission.
func (a *Auth) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := domain.PrincipalFromContext(r.Context())
			if !ok {
				a.fail("unauthenticated")
				writeError(w, http.StatusUnauthorized, KindUnauthenticated, domain.ErrUnauthenticated.Error())
				return
			}

			if !a.policy.Allowed(r.Context(), principal.Role, permission) {
				a.fail("forbidden")
				writeError(w, http.StatusForbidden, KindForbidden, "role "+string(principal.Role)+" lacks "+permission)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (a *Auth) principal(r *http.Request) (domain.Principal, error) {
	if a.resolver == nil {
		p := domain.Principal{
			UserID:   strings.TrimSpace(r.Header.Get(HeaderUserID)),
			AgencyID: strings.TrimSpace(r.Header.Get(HeaderAgencyID)),
			Role:     domain.ParseRole(r.Header.Get(HeaderRole)),
		}
		if err := p.Validate(); err != nil {
			return domain.Principal{}, err
		}
		return p, nil
	}

	token := bearerToken(r)
	if token == "" {
		return domain.Principal{}, domain.ErrUnauthenticated
	}

	return a.resolver.Resolve(r.Context(), token)
}

func (a *Auth) fail(reason string) {
	if a.metrics != nil {
		a.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
}

// bearerToken reads the Authorization header, then the token cookie.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	cookie, err := r.Cookie(tokenCookie)
	if errors.Is(err, http.ErrNoCookie) {
		return ""
	}
	return cookie.Value
}
