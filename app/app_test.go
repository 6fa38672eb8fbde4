package app

import (
	"os"
	"testing"
	"time"

	"github.com/moecoin/moecoind/app/wallet"
	"github.com/moecoin/moecoind/infrastructure/config"
)

func TestDatabaseVersion(t *testing.T) {
	dbPath := t.TempDir()

	exists, err := checkDatabaseVersion(dbPath)
	if err != nil {
		t.Fatalf("checkDatabaseVersion: %+v", err)
	}
	if exists {
		t.Fatalf("checkDatabaseVersion: found a version file in an empty directory")
	}

	err = createDatabaseVersionFile(dbPath)
	if err != nil {
		t.Fatalf("createDatabaseVersionFile: %+v", err)
	}
	exists, err = checkDatabaseVersion(dbPath)
	if err != nil {
		t.Fatalf("checkDatabaseVersion: %+v", err)
	}
	if !exists {
		t.Fatalf("checkDatabaseVersion: the created version file wasn't found")
	}

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown version", content: "2"},
		{name: "malformed version", content: "one"},
	}
	for _, test := range tests {
		err := os.WriteFile(versionFilePath(dbPath), []byte(test.content), 0600)
		if err != nil {
			t.Fatalf("WriteFile: %+v", err)
		}
		_, err = checkDatabaseVersion(dbPath)
		if err == nil {
			t.Errorf("checkDatabaseVersion (%s): expected an error", test.name)
		}
	}
}

func TestOpenDBKeepsWalletKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AppDir = t.TempDir()

	db, err := openDB(cfg)
	if err != nil {
		t.Fatalf("openDB: %+v", err)
	}
	created, err := wallet.Open(db, "")
	if err != nil {
		t.Fatalf("Open: %+v", err)
	}
	db.Close()

	db, err = openDB(cfg)
	if err != nil {
		t.Fatalf("openDB: %+v", err)
	}
	defer db.Close()
	reopened, err := wallet.Open(db, "")
	if err != nil {
		t.Fatalf("Open: %+v", err)
	}
	if reopened.Address() != created.Address() {
		t.Fatalf("openDB: the wallet key didn't survive a restart")
	}
}

func TestComponentManagerMinesToWallet(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AppDir = t.TempDir()
	cfg.Listeners = []string{"127.0.0.1:0"}
	cfg.RPCListen = "127.0.0.1:0"
	cfg.Generate = true

	db, err := openDB(cfg)
	if err != nil {
		t.Fatalf("openDB: %+v", err)
	}
	defer db.Close()
	nodeWallet, err := wallet.Open(db, "")
	if err != nil {
		t.Fatalf("Open: %+v", err)
	}

	componentManager, err := NewComponentManager(cfg, nodeWallet)
	if err != nil {
		t.Fatalf("NewComponentManager: %+v", err)
	}
	componentManager.Start()
	defer componentManager.Stop()

	if componentManager.RPCAddress() == "" {
		t.Fatalf("Start: the HTTP API isn't listening")
	}

	deadline := time.Now().Add(10 * time.Second)
	for len(componentManager.Domain().Blocks()) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("Start: no block was mined in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	reward := componentManager.Domain().Blocks()[1].Transactions[0]
	if reward.Outputs[0].Address != nodeWallet.Address() {
		t.Fatalf("Start: the reward was paid to %s instead of the wallet address %s",
			reward.Outputs[0].Address, nodeWallet.Address())
	}

	componentManager.Stop()
	componentManager.Stop()
}
