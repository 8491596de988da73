package service

import (
	"os"
	"testing"

	"gedops/logger"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger("development")
	os.Exit(m.Run())
}
