package miningmanager

import (
	"github.com/moecoin/moecoind/infrastructure/logger"
	"github.com/moecoin/moecoind/util/panics"
)

var log = logger.RegisterSubSystem("MINR")
var spawn = panics.GoroutineWrapperFunc(log)
