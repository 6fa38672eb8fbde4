package protocol

import (
	"github.com/moecoin/moecoind/infrastructure/logger"
	"github.com/moecoin/moecoind/util/panics"
)

var log = logger.RegisterSubSystem("PROT")
var spawn = panics.GoroutineWrapperFunc(log)
