package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/Abhijeet418/latest-FILxConnect/internal/core/ports"
)

// Clé privée pour le contexte (évite les collisions)
type contextKey struct{ name string }

var actorCtxKey = &contextKey{"actor_id"}

// AuthMiddleware décode le header Authorization et injecte l'acteur courant.
// L'identité est explicite : les handlers la lisent du contexte, jamais d'un
// état global.
func AuthMiddleware(identity ports.IdentityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			// 1. Pas de header ? On laisse passer (healthz, metrics).
			// Les handlers qui exigent une identité répondent 401 eux-mêmes.
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			// 2. Validation du format "Bearer <token>"
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Invalid token format", http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")

			// 3. Vérification locale de la signature
			actorID, err := identity.Authenticate(r.Context(), tokenStr)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			// 4. Succès : l'ID acteur voyage dans le contexte
			ctx := context.WithValue(r.Context(), actorCtxKey, actorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext récupère l'ID acteur injecté par le middleware
func ActorFromContext(ctx context.Context) string {
	raw, _ := ctx.Value(actorCtxKey).(string)
	return raw
}
