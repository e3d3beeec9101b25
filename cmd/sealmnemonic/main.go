// Encrypts a TON mnemonic into a .cwt wallet file for TON_WALLET_FILE.
// Usage: go run ./cmd/sealmnemonic -out wallet.cwt
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/AlexZinkM/ton-boc-backend/internal/config"
	"github.com/AlexZinkM/ton-boc-backend/internal/crypto"
	"github.com/AlexZinkM/ton-boc-backend/ton"
)

func main() {
	out := flag.String("out", "wallet"+crypto.FileExt, "path of the wallet file to create")
	flag.Parse()

	if err := seal(*out); err != nil {
		if ton.IsFileExistsError(err) {
			fmt.Fprintf(os.Stderr, "%v: choose another -out path or remove the file\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func seal(path string) error {
	phrase, err := config.PromptForPassword("Enter mnemonic (24 words): ")
	if err != nil {
		return err
	}
	defer clear(phrase)

	words := crypto.SplitMnemonic(string(phrase))
	if err := crypto.ValidateMnemonic(words); err != nil {
		return err
	}
	if !crypto.IsBasicSeed(words) {
		fmt.Fprintln(os.Stderr, "warning: mnemonic is not a basic TON seed")
	}

	password, err := config.PromptForPassword("Enter wallet password: ")
	if err != nil {
		return err
	}
	defer clear(password)

	confirm, err := config.PromptForPassword("Repeat wallet password: ")
	if err != nil {
		return err
	}
	defer clear(confirm)

	if !bytes.Equal(password, confirm) {
		return fmt.Errorf("passwords do not match")
	}

	address, err := ton.SealMnemonic(path, words, password)
	if err != nil {
		return err
	}

	fmt.Printf("Wallet %s sealed to %s\n", address, path)
	return nil
}
