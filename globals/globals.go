package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(getenv("JWT_SECRET", "parkly_dev_secret"))

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const EmpIDKey ContextKey = "empId"

var Ctx = context.Background()

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
