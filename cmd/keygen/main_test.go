package main

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/totp"
)

func TestRun(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, run(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	values := map[string]string{}
	for _, line := range lines {
		name, value, ok := strings.Cut(line, "=")
		require.True(t, ok, line)
		values[name] = value
	}

	signing, err := base64.StdEncoding.DecodeString(values["JWT_SIGNING_KEY"])
	require.NoError(t, err)
	assert.Len(t, signing, 32)

	_, err = totp.Config{EncryptionKey: values["TOTP_ENCRYPTION_KEY"]}.EncryptionKeyBytes()
	assert.NoError(t, err)
	assert.NotEqual(t, values["JWT_SIGNING_KEY"], values["TOTP_ENCRYPTION_KEY"])
}
