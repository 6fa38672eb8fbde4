package app

import (
	"fmt"
	"time"

	"github.com/moecoin/moecoind/app/wallet"
	"github.com/moecoin/moecoind/infrastructure/config"
	"github.com/moecoin/moecoind/infrastructure/db/database/ldb"
	"github.com/moecoin/moecoind/infrastructure/logger"
	"github.com/moecoin/moecoind/infrastructure/os/signal"
	"github.com/moecoin/moecoind/util/panics"
	"github.com/moecoin/moecoind/version"
)

const shutdownTimeout = 2 * time.Minute

type moecoindApp struct {
	cfg *config.Config
}

// StartApp starts the moecoind app, and blocks until it finishes running
func StartApp() error {
	// Load configuration and parse command line. This function also
	// initializes logging and configures it accordingly.
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	defer logger.BackendLog.Close()
	defer panics.HandlePanic(log, "MAIN", nil)

	app := &moecoindApp{cfg: cfg}
	return app.main(nil)
}

func (app *moecoindApp) main(startedChan chan<- struct{}) error {
	// Get a channel that will be closed when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem.
	interrupt := signal.InterruptListener()
	defer log.Info("Shutdown complete")

	// Show version at startup.
	log.Infof("Version %s", version.Version())

	db, err := openDB(app.cfg)
	if err != nil {
		log.Errorf("Loading database failed: %+v", err)
		return err
	}
	defer func() {
		log.Infof("Gracefully shutting down the database...")
		err := db.Close()
		if err != nil {
			log.Errorf("Failed to close the database: %s", err)
		}
	}()

	wallet, err := wallet.Open(db, app.cfg.Mnemonic)
	if err != nil {
		log.Errorf("Opening the wallet failed: %+v", err)
		return err
	}
	if app.cfg.ShowMnemonic {
		mnemonic, err := wallet.Mnemonic()
		if err != nil {
			log.Errorf("Deriving the wallet mnemonic failed: %+v", err)
			return err
		}
		fmt.Println(mnemonic)
		return nil
	}

	componentManager, err := NewComponentManager(app.cfg, wallet)
	if err != nil {
		log.Errorf("Unable to start moecoind: %+v", err)
		return err
	}

	defer func() {
		log.Infof("Gracefully shutting down moecoind...")

		shutdownDone := make(chan struct{})
		go func() {
			componentManager.Stop()
			shutdownDone <- struct{}{}
		}()

		select {
		case <-shutdownDone:
		case <-time.After(shutdownTimeout):
			log.Criticalf("Graceful shutdown timed out %s. Terminating...", shutdownTimeout)
		}
		log.Infof("Moecoind shutdown complete")
	}()

	componentManager.Start()
	log.Infof("Serving the HTTP API on %s with wallet address %s",
		componentManager.RPCAddress(), wallet.Address())

	if startedChan != nil {
		startedChan <- struct{}{}
	}

	// Wait until the interrupt signal is received from an OS signal or
	// shutdown is requested through one of the subsystems.
	<-interrupt
	return nil
}

// openDB opens the LevelDB database holding the wallet key, creating it
// together with its version file when it doesn't exist yet
func openDB(cfg *config.Config) (*ldb.LevelDB, error) {
	dbPath := cfg.DataDir()

	hasVersionFile, err := checkDatabaseVersion(dbPath)
	if err != nil {
		return nil, err
	}

	log.Infof("Loading database from '%s'", dbPath)
	db, err := ldb.NewLevelDB(dbPath, cfg.DBCacheSizeMiB)
	if err != nil {
		return nil, err
	}

	if !hasVersionFile {
		err = createDatabaseVersionFile(dbPath)
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
