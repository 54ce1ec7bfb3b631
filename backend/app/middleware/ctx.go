package middleware

import (
	"context"
	"gradebook/backend/app/services"
)

func GetPrincipal(ctx context.Context) (services.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(services.Principal)
	return p, ok
}
