package serverutils

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Session identity rides in a signed bearer token carrying only the opaque
// session id. Init mints the token; every other workflow call requires it.

const sessionIdClaim = "session_id"

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// IssueSessionToken signs a bearer token for the session id, valid for ttl.
func IssueSessionToken(sessionId string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		sessionIdClaim: sessionId,
		"exp":          time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret())
}

// SessionMiddleware requires a valid session token and stores the session id
// in ctx locals for the handler.
func SessionMiddleware(ctx *fiber.Ctx) error {
	sessionId, ok := sessionIdFromHeader(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Success: false,
			Code:    fiber.StatusUnauthorized,
			Message: "Missing or invalid session token",
		})
	}
	ctx.Locals(sessionIdClaim, sessionId)
	return ctx.Next()
}

// OptionalSessionMiddleware resolves the session id when a valid token is
// present but never rejects. Init uses this for create-or-reset: with a
// token the session is reset in place, without one a fresh id is minted.
func OptionalSessionMiddleware(ctx *fiber.Ctx) error {
	if sessionId, ok := sessionIdFromHeader(ctx); ok {
		ctx.Locals(sessionIdClaim, sessionId)
	}
	return ctx.Next()
}

// SessionId returns the session id resolved by the middleware, or "".
func SessionId(ctx *fiber.Ctx) string {
	if v, ok := ctx.Locals(sessionIdClaim).(string); ok {
		return v
	}
	return ""
}

func sessionIdFromHeader(ctx *fiber.Ctx) (string, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return "", false
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sessionId, ok := claims[sessionIdClaim].(string)
	return sessionId, ok && sessionId != ""
}
