package wallet

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/moecoin/moecoind/domain/consensus/utils/signing"
	"github.com/moecoin/moecoind/infrastructure/db/database"
	"github.com/moecoin/moecoind/infrastructure/db/dbaccess"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

// Wallet holds the single key pair of the node. Its address receives mining
// rewards and is the sender of every transaction the node creates.
type Wallet struct {
	privateKey *secp256k1.PrivateKey
	address    string
}

// Open loads the wallet key from db. When db holds no key yet, the key is
// restored from mnemonic if one is given, or freshly generated otherwise,
// and stored. A stored key is never replaced.
func Open(db database.DataAccessor, mnemonic string) (*Wallet, error) {
	hasKey, err := dbaccess.HasWalletPrivateKey(db)
	if err != nil {
		return nil, err
	}

	if hasKey {
		if mnemonic != "" {
			log.Warnf("Ignoring the given mnemonic since a wallet key already exists")
		}
		privateKeyBytes, err := dbaccess.FetchWalletPrivateKey(db)
		if err != nil {
			return nil, err
		}
		privateKey, err := signing.PrivateKeyFromBytes(privateKeyBytes)
		if err != nil {
			return nil, errors.Wrap(err, "the stored wallet key is corrupted")
		}
		wallet := newWallet(privateKey)
		log.Infof("Loaded wallet with address %s", wallet.address)
		return wallet, nil
	}

	var privateKey *secp256k1.PrivateKey
	if mnemonic != "" {
		privateKey, err = PrivateKeyFromMnemonic(mnemonic)
		if err != nil {
			return nil, err
		}
		log.Infof("Restoring the wallet key from the given mnemonic")
	} else {
		privateKey, err = signing.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		log.Infof("Generated a new wallet key")
	}

	err = dbaccess.StoreWalletPrivateKey(db, privateKey.Serialize())
	if err != nil {
		return nil, err
	}
	wallet := newWallet(privateKey)
	log.Infof("Created wallet with address %s", wallet.address)
	return wallet, nil
}

func newWallet(privateKey *secp256k1.PrivateKey) *Wallet {
	return &Wallet{
		privateKey: privateKey,
		address:    signing.Address(privateKey),
	}
}

// Address returns the address of the wallet
func (w *Wallet) Address() string {
	return w.address
}

// Balance returns the sum of the outputs in utxoSet owned by the wallet
func (w *Wallet) Balance(utxoSet externalapi.ReadOnlyUTXOSet) uint64 {
	return Balance(w.address, utxoSet)
}

// UTXOs returns the outputs in utxoSet owned by the wallet
func (w *Wallet) UTXOs(utxoSet externalapi.ReadOnlyUTXOSet) []externalapi.UTXOEntry {
	return spendableUTXOs(w.address, utxoSet, nil)
}

// CreateTransaction builds and signs a transaction sending amount to
// toAddress. See BuildTransaction.
func (w *Wallet) CreateTransaction(toAddress string, amount uint64, utxoSet externalapi.ReadOnlyUTXOSet,
	pendingPool []*externalapi.DomainTransaction, timestamp int64) (*externalapi.DomainTransaction, error) {

	return BuildTransaction(toAddress, amount, w.privateKey, utxoSet, pendingPool, timestamp)
}

// Mnemonic returns the bip39 mnemonic encoding the wallet key
func (w *Wallet) Mnemonic() (string, error) {
	mnemonic, err := bip39.NewMnemonic(w.privateKey.Serialize())
	if err != nil {
		return "", errors.WithStack(err)
	}
	return mnemonic, nil
}

// PrivateKeyFromMnemonic decodes a private key from the bip39 mnemonic
// returned by Mnemonic
func PrivateKeyFromMnemonic(mnemonic string) (*secp256k1.PrivateKey, error) {
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, errors.Wrap(err, "invalid mnemonic")
	}
	return signing.PrivateKeyFromBytes(entropy)
}
