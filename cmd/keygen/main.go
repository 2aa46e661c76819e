// Command keygen prints fresh random keys for JWT_SIGNING_KEY and
// TOTP_ENCRYPTION_KEY.
package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/dmitrymomot/authkit/pkg/secrets"
)

func main() {
	if err := run(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(w io.Writer) error {
	for _, name := range []string{"JWT_SIGNING_KEY", "TOTP_ENCRYPTION_KEY"} {
		key, err := secrets.GenerateKey()
		if err != nil {
			return fmt.Errorf("generate %s: %w", name, err)
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", name, base64.StdEncoding.EncodeToString(key)); err != nil {
			return err
		}
	}
	return nil
}
