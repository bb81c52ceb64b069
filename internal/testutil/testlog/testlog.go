package testlog

import (
	"testing"

	"github.com/danmuck/decld/internal/logging"
)

func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	log := logging.C(logging.ChannelDaemon)
	log.Debug().Str("test", t.Name()).Msg("test start")
}
