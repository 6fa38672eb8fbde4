package dbaccess

import (
	"github.com/moecoin/moecoind/infrastructure/db/database"
	"github.com/pkg/errors"
)

var (
	walletBucket     = database.MakeBucket([]byte("wallet"))
	walletPrivateKey = walletBucket.Key([]byte("wallet-private-key"))
)

// ErrWalletKeyExists is returned when attempting to store a wallet key while
// one is already stored.
var ErrWalletKeyExists = errors.New("a wallet private key is already stored")

// StoreWalletPrivateKey stores the given serialized private key in the
// database. The key is write-once: storing over an existing key fails with
// ErrWalletKeyExists.
func StoreWalletPrivateKey(accessor database.DataAccessor, privateKeyBytes []byte) error {
	exists, err := HasWalletPrivateKey(accessor)
	if err != nil {
		return err
	}
	if exists {
		return errors.WithStack(ErrWalletKeyExists)
	}

	return accessor.Put(walletPrivateKey, privateKeyBytes)
}

// HasWalletPrivateKey returns whether a wallet private key has been
// previously stored in the database.
func HasWalletPrivateKey(accessor database.DataAccessor) (bool, error) {
	return accessor.Has(walletPrivateKey)
}

// FetchWalletPrivateKey returns the stored serialized wallet private key.
// Returns ErrNotFound if no key had been previously stored.
func FetchWalletPrivateKey(accessor database.DataAccessor) ([]byte, error) {
	return accessor.Get(walletPrivateKey)
}
