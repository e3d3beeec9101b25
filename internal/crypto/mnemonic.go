package crypto

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// MnemonicWords is the length of a TON recovery phrase
	MnemonicWords = 24

	// TON derivation parameters (same as ton-crypto / tonutils wallets)
	pbkdfIterations   = 100000
	seedSalt          = "TON default seed"
	seedVersionSalt   = "TON seed version"
	seedVersionRounds = pbkdfIterations / 256
)

var ErrEmptyMnemonic = errors.New("mnemonic is empty")

var englishWords = func() map[string]struct{} {
	m := make(map[string]struct{}, len(wordlists.English))
	for _, w := range wordlists.English {
		m[w] = struct{}{}
	}
	return m
}()

// NormalizeMnemonic trims and lower-cases every word and drops empty entries.
func NormalizeMnemonic(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

// SplitMnemonic splits a space separated phrase into normalized words
func SplitMnemonic(phrase string) []string {
	return NormalizeMnemonic(strings.Fields(phrase))
}

// ValidateMnemonic checks word count and that every word is in the BIP-39 English list.
// Errors reference word positions only, never the words themselves.
func ValidateMnemonic(words []string) error {
	words = NormalizeMnemonic(words)
	if len(words) == 0 {
		return ErrEmptyMnemonic
	}
	if len(words) != MnemonicWords {
		return fmt.Errorf("mnemonic must have %d words, got %d", MnemonicWords, len(words))
	}
	for i, w := range words {
		if _, ok := englishWords[w]; !ok {
			return fmt.Errorf("mnemonic word #%d is not in the wordlist", i+1)
		}
	}
	return nil
}

// MnemonicToPrivateKey derives the Ed25519 key of a TON recovery phrase.
// password is empty for regular wallets.
func MnemonicToPrivateKey(words []string, password string) (ed25519.PrivateKey, error) {
	if err := ValidateMnemonic(words); err != nil {
		return nil, err
	}

	entropy := mnemonicToEntropy(NormalizeMnemonic(words), password)
	defer clear(entropy)

	seed := pbkdf2.Key(entropy, []byte(seedSalt), pbkdfIterations, 64, sha512.New)
	defer clear(seed)

	return ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize]), nil
}

// IsBasicSeed reports whether the phrase carries the TON seed version marker.
// Phrases generated by TON wallets always do; others may still derive a usable key.
func IsBasicSeed(words []string) bool {
	entropy := mnemonicToEntropy(NormalizeMnemonic(words), "")
	defer clear(entropy)

	marker := pbkdf2.Key(entropy, []byte(seedVersionSalt), seedVersionRounds, 64, sha512.New)
	return marker[0] == 0
}

func mnemonicToEntropy(words []string, password string) []byte {
	mac := hmac.New(sha512.New, []byte(strings.Join(words, " ")))
	mac.Write([]byte(password))
	return mac.Sum(nil)
}
