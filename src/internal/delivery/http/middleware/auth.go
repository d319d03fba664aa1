package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"

	"ride-service/src/pkg/token"
	"ride-service/src/pkg/utils"

	httpError "ride-service/src/pkg/http-error"
)

const authLocalKey = "auth"

// VerifyBearer validates the bearer token and stores the authenticated user
// metadata on the request. The core performs no credential checks beyond
// this; ownership checks happen in the usecases.
func VerifyBearer(v *viper.Viper) fiber.Handler {
	secret := []byte(v.GetString("jwt.secret"))

	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "missing bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		raw := strings.TrimPrefix(header, "Bearer ")
		parsed, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !parsed.Valid {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid or expired token"
			return utils.ResponseError(errObj, ctx)
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid token claims"
			return utils.ResponseError(errObj, ctx)
		}

		meta := token.Metadata{}
		if m, ok := claims["metadata"].(map[string]interface{}); ok {
			meta.UserID, _ = m["user_id"].(string)
			meta.FullName, _ = m["full_name"].(string)
		}
		if meta.UserID == "" {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "token carries no user id"
			return utils.ResponseError(errObj, ctx)
		}

		ctx.Locals(authLocalKey, meta)
		return ctx.Next()
	}
}

// GetUser returns the authenticated user metadata stored by VerifyBearer.
func GetUser(ctx *fiber.Ctx) token.Metadata {
	meta, _ := ctx.Locals(authLocalKey).(token.Metadata)
	return meta
}
