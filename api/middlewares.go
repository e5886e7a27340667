package api

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/vocdoni/saas-billing/api/apicommon"
	"github.com/vocdoni/saas-billing/errors"
)

// authenticator is a middleware that checks the JWT token verified by
// jwtauth.Verifier. If the token carries the user identifier (its email) in
// the userId claim, it adds the identifier to the request context and passes
// it to the next handler.
func (a *API) authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			errors.ErrUnauthorized.Write(w)
			return
		}
		if token == nil || jwt.Validate(token, jwt.WithRequiredClaim("userId")) != nil {
			errors.ErrUnauthorized.Withf("userId claim not found in JWT token").Write(w)
			return
		}
		userID, ok := claims["userId"].(string)
		if !ok || userID == "" {
			errors.ErrUnauthorized.Withf("invalid userId claim").Write(w)
			return
		}
		ctx := context.WithValue(r.Context(), apicommon.UserIDMetadataKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
