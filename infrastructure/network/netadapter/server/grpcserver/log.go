package grpcserver

import (
	"github.com/moecoin/moecoind/infrastructure/logger"
	"github.com/moecoin/moecoind/util/panics"
)

var log = logger.RegisterSubSystem("GRPC")
var spawn = panics.GoroutineWrapperFunc(log)
