// Command genkeys writes a fresh RSA key pair for signing access tokens.
package main

import (
	"flag"
	"os"

	"friendgift/internal/keys"

	"go.uber.org/zap"
)

func main() {
	privatePath := flag.String("private", "keys/privateKey.pem", "output path of the PKCS#8 private key")
	publicPath := flag.String("public", "keys/publicKey.pem", "output path of the PKIX public key")
	bits := flag.Int("bits", keys.DefaultBits, "RSA key size")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := keys.WritePair(*privatePath, *publicPath, *bits); err != nil {
		logger.Fatal("failed to write key pair", zap.Error(err))
	}
	logger.Info("key pair written", zap.String("private", *privatePath), zap.String("public", *publicPath), zap.Int("bits", *bits))
}
