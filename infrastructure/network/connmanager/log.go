package connmanager

import (
	"github.com/moecoin/moecoind/infrastructure/logger"
	"github.com/moecoin/moecoind/util/panics"
)

var log = logger.RegisterSubSystem("CMGR")
var spawn = panics.GoroutineWrapperFunc(log)
