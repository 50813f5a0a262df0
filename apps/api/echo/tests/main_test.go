package tests

import (
	"net/mail"
	"os"
	"testing"
	"time"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/question"
	"github.com/aeroprep/aeroprep/core/user"
)

func TestMain(m *testing.M) {
	conf = &core.Config{
		TestMode:         true,
		Env:              "TEST",
		AppName:          "AeroPrep",
		SecretKey:        "n0t-s0-s3cr3t-t3st-k3y",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Address: "noreply@test.aero"},
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		},
		Practice: core.PracticeConfig{
			CacheSize: 50,
			CacheTTL:  10 * time.Minute,
		},
	}

	core.InitValidators()
	question.InitValidators()
	user.InitValidators()
	core.ParseEmailTemplates(conf)

	os.Exit(m.Run())
}
