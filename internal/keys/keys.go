// Package keys provisions the RSA key pair used to sign and verify tokens.
package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dgrijalva/jwt-go"
)

// DefaultBits is the RSA modulus size for generated keys.
const DefaultBits = 2048

// Generate creates a new RSA key pair and returns it PEM encoded
// (PKCS#8 "PRIVATE KEY" and PKIX "PUBLIC KEY").
func Generate(bits int) (privatePEM, publicPEM []byte, err error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	privatePEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privatePEM, publicPEM, nil
}

// WritePair generates a key pair and writes it to the given paths,
// creating parent directories as needed.
func WritePair(privatePath, publicPath string, bits int) error {
	privatePEM, publicPEM, err := Generate(bits)
	if err != nil {
		return err
	}
	if err := writeFile(privatePath, privatePEM, 0o600); err != nil {
		return err
	}
	return writeFile(publicPath, publicPEM, 0o644)
}

// EnsureKeyPair writes a fresh pair unless both files already exist.
// It reports whether a new pair was generated.
func EnsureKeyPair(privatePath, publicPath string) (bool, error) {
	privOK, err := exists(privatePath)
	if err != nil {
		return false, err
	}
	pubOK, err := exists(publicPath)
	if err != nil {
		return false, err
	}
	if privOK && pubOK {
		return false, nil
	}
	if err := WritePair(privatePath, publicPath, DefaultBits); err != nil {
		return false, err
	}
	return true, nil
}

// LoadPrivateKey reads a PEM encoded RSA private key (PKCS#1 or PKCS#8).
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key %s: %w", path, err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key %s: %w", path, err)
	}
	return key, nil
}

// LoadPublicKey reads a PEM encoded RSA public key (PKIX or certificate).
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key %s: %w", path, err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key %s: %w", path, err)
	}
	return key, nil
}

func writeFile(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create key directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}
