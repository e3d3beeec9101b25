package ton

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AlexZinkM/ton-boc-backend/internal/crypto"
	"github.com/AlexZinkM/ton-boc-backend/internal/model"

	"github.com/skip2/go-qrcode"
)

const (
	networkTON = "ton"
)

// FileExistsError is an error when file already exists and is not empty
type FileExistsError struct {
	Message string
}

func (e *FileExistsError) Error() string {
	return e.Message
}

// IsFileExistsError checks if error is FileExistsError
func IsFileExistsError(err error) bool {
	_, ok := err.(*FileExistsError)
	return ok
}

// SealMnemonic encrypts a recovery phrase into a .cwt file next to the wallet address and its QR code.
// Returns the wallet address on success.
// password must be []byte for security (caller should zero it after use)
func SealMnemonic(filePath string, words []string, password []byte) (address string, err error) {
	if filepath.Ext(filePath) != crypto.FileExt {
		return "", fmt.Errorf("file must have .cwt extension")
	}

	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.Size() > 0 {
		return "", &FileExistsError{Message: "file is not empty"}
	}

	words = crypto.NormalizeMnemonic(words)
	w, err := WalletFromMnemonic(words)
	if err != nil {
		return "", err
	}
	address = w.Address().String()

	qrCode, err := generateQRCode(address)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	walletData := &model.WalletData{
		Mnemonic:  words,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	if err := crypto.EncryptWallet(filePath, networkTON, address, qrCode, walletData, password); err != nil {
		return "", fmt.Errorf("failed to encrypt wallet: %w", err)
	}

	return address, nil
}

// OpenSealedMnemonic decrypts a .cwt file and checks that the phrase still derives the recorded address
func OpenSealedMnemonic(filePath string, password []byte) ([]string, error) {
	cwtFile, walletData, err := crypto.DecryptWallet(filePath, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt wallet: %w", err)
	}
	if cwtFile.Network != networkTON {
		return nil, fmt.Errorf("wallet file is for network %q, expected %q", cwtFile.Network, networkTON)
	}

	w, err := WalletFromMnemonic(walletData.Mnemonic)
	if err != nil {
		return nil, err
	}
	if w.Address().String() != cwtFile.Address {
		return nil, fmt.Errorf("mnemonic does not match wallet address %s", cwtFile.Address)
	}

	return walletData.Mnemonic, nil
}

// WalletFromMnemonic derives the key of words and opens its wallet
func WalletFromMnemonic(words []string) (*Wallet, error) {
	key, err := crypto.MnemonicToPrivateKey(words, "")
	if err != nil {
		return nil, newError(KindConfig, "derive key", err)
	}
	w, err := NewWallet(key)
	if err != nil {
		return nil, newError(KindSigning, "open wallet", err)
	}
	return w, nil
}

// generateQRCode generates QR code of address in base64
func generateQRCode(address string) (string, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}

	return base64.StdEncoding.EncodeToString(png), nil
}
