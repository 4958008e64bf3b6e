package inbound

import (
	"github.com/shandysiswandi/seedauth/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/health", end.Health)

	r.POST("/decrypt-seed", end.DecryptSeed)
	r.GET("/generate-2fa", end.Generate2FA)
	r.POST("/verify-2fa", end.Verify2FA)
}
