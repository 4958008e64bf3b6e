package inbound

import (
	"context"

	"github.com/shandysiswandi/seedauth/internal/authenticator/usecase"
)

type ucCron interface {
	GenerateCode(ctx context.Context) (*usecase.GenerateCodeOutput, error)
}

type uc interface {
	ucCron

	Provision(ctx context.Context, in usecase.ProvisionInput) (*usecase.ProvisionOutput, error)
	VerifyCode(ctx context.Context, in usecase.VerifyCodeInput) (*usecase.VerifyCodeOutput, error)
	Health(ctx context.Context) *usecase.HealthOutput
}
