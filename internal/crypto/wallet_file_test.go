package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AlexZinkM/ton-boc-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowScryptCost(t *testing.T) {
	t.Helper()
	prev := scryptN
	scryptN = 1 << 10
	t.Cleanup(func() { scryptN = prev })
}

func TestEncryptDecryptWallet(t *testing.T) {
	lowScryptCost(t)
	path := filepath.Join(t.TempDir(), "wallet.cwt")

	data := &model.WalletData{Mnemonic: testWords, CreatedAt: "2026-01-01T00:00:00Z"}
	require.NoError(t, EncryptWallet(path, "ton", "EQaddress", "qr", data, []byte("pass")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, utf8BOM, raw[:3])
	assert.NotContains(t, string(raw), testWords[0])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cwt, got, err := DecryptWallet(path, []byte("pass"))
	require.NoError(t, err)
	assert.Equal(t, "ton", cwt.Network)
	assert.Equal(t, "EQaddress", cwt.Address)
	assert.Equal(t, data.Mnemonic, got.Mnemonic)
	assert.Equal(t, data.CreatedAt, got.CreatedAt)
}

func TestDecryptWallet_WrongPassword(t *testing.T) {
	lowScryptCost(t)
	path := filepath.Join(t.TempDir(), "wallet.cwt")
	require.NoError(t, EncryptWallet(path, "ton", "EQaddress", "", &model.WalletData{Mnemonic: testWords}, []byte("pass")))

	_, _, err := DecryptWallet(path, []byte("other"))
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestEncryptWallet_Rejects(t *testing.T) {
	lowScryptCost(t)
	dir := t.TempDir()
	data := &model.WalletData{Mnemonic: testWords}

	err := EncryptWallet(filepath.Join(dir, "wallet.txt"), "ton", "", "", data, []byte("pass"))
	assert.ErrorContains(t, err, ".cwt")

	err = EncryptWallet(filepath.Join(dir, "wallet.cwt"), "ton", "", "", data, nil)
	assert.ErrorContains(t, err, "password")

	existing := filepath.Join(dir, "existing.cwt")
	require.NoError(t, os.WriteFile(existing, []byte("{}"), 0600))
	err = EncryptWallet(existing, "ton", "", "", data, []byte("pass"))
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestDecryptWallet_MissingOrEmpty(t *testing.T) {
	dir := t.TempDir()
	_, _, err := DecryptWallet(filepath.Join(dir, "missing.cwt"), []byte("pass"))
	assert.ErrorContains(t, err, "does not exist")

	empty := filepath.Join(dir, "empty.cwt")
	require.NoError(t, os.WriteFile(empty, nil, 0600))
	_, _, err = DecryptWallet(empty, []byte("pass"))
	assert.ErrorContains(t, err, "empty")
}
