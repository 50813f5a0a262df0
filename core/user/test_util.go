package user

import (
	"context"

	"github.com/aeroprep/aeroprep/core"
)

type serviceMock struct {
	service
}

func NewServiceMock(conf *core.Config, logger core.Logger, repo Repository, mailSvc core.EmailService) Service {
	return &serviceMock{
		service: service{
			conf:    conf,
			repo:    repo,
			mailSvc: mailSvc,
			logger:  logger,
		},
	}
}

func (svc *serviceMock) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	// run synchronously
	svc.sendPasswordResetMail(usr)
	return nil
}
