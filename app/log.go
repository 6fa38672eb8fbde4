package app

import (
	"github.com/moecoin/moecoind/infrastructure/logger"
)

var log = logger.RegisterSubSystem("MOED")
