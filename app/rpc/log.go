package rpc

import (
	"github.com/moecoin/moecoind/infrastructure/logger"
	"github.com/moecoin/moecoind/util/panics"
)

var log = logger.RegisterSubSystem("RPCS")
var spawn = panics.GoroutineWrapperFunc(log)
