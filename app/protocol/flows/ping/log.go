package ping

import (
	"github.com/moecoin/moecoind/infrastructure/logger"
)

var log = logger.RegisterSubSystem("PROT")
