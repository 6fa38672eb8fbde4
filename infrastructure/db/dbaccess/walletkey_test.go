package dbaccess

import (
	"bytes"
	"testing"

	"github.com/moecoin/moecoind/infrastructure/db/database/ldb"
	"github.com/pkg/errors"
)

func TestWalletPrivateKeyIsWriteOnce(t *testing.T) {
	db, err := ldb.NewLevelDB(t.TempDir(), 8)
	if err != nil {
		t.Fatalf("NewLevelDB: %+v", err)
	}
	defer db.Close()

	_, err = FetchWalletPrivateKey(db)
	if !IsNotFoundError(err) {
		t.Fatalf("FetchWalletPrivateKey: expected ErrNotFound on an empty database, got %+v", err)
	}

	first := bytes.Repeat([]byte{1}, 32)
	err = StoreWalletPrivateKey(db, first)
	if err != nil {
		t.Fatalf("StoreWalletPrivateKey: %+v", err)
	}

	err = StoreWalletPrivateKey(db, bytes.Repeat([]byte{2}, 32))
	if !errors.Is(err, ErrWalletKeyExists) {
		t.Fatalf("StoreWalletPrivateKey: expected ErrWalletKeyExists, got %+v", err)
	}

	stored, err := FetchWalletPrivateKey(db)
	if err != nil {
		t.Fatalf("FetchWalletPrivateKey: %+v", err)
	}
	if !bytes.Equal(stored, first) {
		t.Fatalf("FetchWalletPrivateKey: the stored key was overwritten")
	}
}
