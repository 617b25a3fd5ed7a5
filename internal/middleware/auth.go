package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/envelope/api/handler"
	"github.com/fastygo/envelope/api/transport"
	"github.com/fastygo/envelope/domain"
)

const userIDHeader = "X-User-ID"

// JWTGuard rejects requests without a valid HS256 bearer token. Rejections
// are failure envelopes with code 401.
type JWTGuard struct {
	secret []byte
	issuer string
	logger *zap.Logger
	opts   []transport.Option
}

func NewJWTGuard(secret, issuer string, logger *zap.Logger, opts ...transport.Option) *JWTGuard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JWTGuard{
		secret: []byte(secret),
		issuer: issuer,
		logger: logger,
		opts:   opts,
	}
}

func (g *JWTGuard) FastHTTP(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		userID, err := g.verify(string(ctx.Request.Header.Peek("Authorization")))
		if err != nil {
			g.logger.Warn("request rejected", zap.ByteString("path", ctx.Path()), zap.Error(err))
			if err := transport.Send(transport.FastHTTPPort{Ctx: ctx}, apiHandler.FailureFor(domain.ErrUnauthorized), g.opts...); err != nil {
				g.logger.Error("failed to write envelope", zap.Error(err))
			}
			return
		}
		ctx.Request.Header.Del(userIDHeader)
		if userID != "" {
			ctx.Request.Header.Set(userIDHeader, userID)
		}
		next(ctx)
	}
}

func (g *JWTGuard) HTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := g.verify(r.Header.Get("Authorization"))
		if err != nil {
			g.logger.Warn("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
			if err := transport.Send(transport.HTTPPort{W: w}, apiHandler.FailureFor(domain.ErrUnauthorized), g.opts...); err != nil {
				g.logger.Error("failed to write envelope", zap.Error(err))
			}
			return
		}
		r = r.Clone(r.Context())
		r.Header.Del(userIDHeader)
		if userID != "" {
			r.Header.Set(userIDHeader, userID)
		}
		next.ServeHTTP(w, r)
	})
}

func (g *JWTGuard) verify(header string) (string, error) {
	tokenString := extractToken(header)
	if tokenString == "" {
		return "", domain.WrapError(domain.ErrCodeUnauthorized, "missing bearer token", nil)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", domain.WrapError(domain.ErrCodeUnauthorized, "invalid jwt token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.WrapError(domain.ErrCodeUnauthorized, "unexpected claims", nil)
	}
	if g.issuer != "" && !claims.VerifyIssuer(g.issuer, true) {
		return "", domain.WrapError(domain.ErrCodeUnauthorized, "unexpected issuer", nil)
	}

	if userID, ok := claims["user_id"].(string); ok {
		return userID, nil
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}

func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return header
}
