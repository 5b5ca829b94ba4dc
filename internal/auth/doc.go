// Package auth provides authentication for the FocusMode API.
//
// It supports two authentication modes:
//   - "none": single user, every request runs as DefaultUserID
//   - "local": registered users; API clients send a JWT bearer token, browsers may
//     use the cookie session created at login
//
// # Configuration
//
//	AUTH_MODE=local               # default
//	JWT_SECRET=<random string>    # auto-generated if empty, tokens then die with the process
//	AUTH_TOKEN_EXPIRY=168h        # bearer token lifetime (7 days)
//	AUTH_BCRYPT_COST=10
//	AUTH_SESSION_LIFETIME=24h
//	AUTH_SECURE_COOKIES=true
//
// # Usage
//
//	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
//	authService := auth.NewService(usersRepo, tokens, cfg.Auth)
//	router.Use(auth.NewMiddleware(authService, sessionManager, cfg.Auth).Handler())
//
// Extract the user in handlers:
//
//	userID := auth.GetUserID(c)
package auth
