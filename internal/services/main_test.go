package services

import (
	"os"
	"testing"

	"github.com/mindwell-app/mindwell/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}
