package inbound

import (
	"github.com/shandysiswandi/seedauth/internal/authenticator/usecase"
	"github.com/shandysiswandi/seedauth/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// DecryptSeed decrypts the posted seed with the service private key and
// stores it, replacing any previous seed.
func (h *HTTPEndpoint) DecryptSeed(r *router.Request) (any, error) {
	var req DecryptSeedRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Provision(r.Context(), usecase.ProvisionInput{EncryptedSeed: req.value()})
	if err != nil {
		return nil, err
	}

	return DecryptSeedResponse{Status: out.Status}, nil
}

// Generate2FA returns the current code and how many seconds it stays valid.
func (h *HTTPEndpoint) Generate2FA(r *router.Request) (any, error) {
	out, err := h.uc.GenerateCode(r.Context())
	if err != nil {
		return nil, err
	}

	return Generate2FAResponse{Code: out.Code, ValidFor: out.ValidFor}, nil
}

func (h *HTTPEndpoint) Verify2FA(r *router.Request) (any, error) {
	var req Verify2FARequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.VerifyCode(r.Context(), usecase.VerifyCodeInput{Code: req.Code})
	if err != nil {
		return nil, err
	}

	return Verify2FAResponse{Valid: out.Valid}, nil
}

func (h *HTTPEndpoint) Health(r *router.Request) (any, error) {
	out := h.uc.Health(r.Context())
	return HealthResponse{Status: out.Status, SeedProvisioned: out.SeedProvisioned}, nil
}
