package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes entropía del token de invitación: 32 bytes ≈ 256 bits, suficiente
// para que la probabilidad de colisión sea despreciable. El índice único de la
// base es el backstop final (reintento en conflicto, no pre-chequeo).
const tokenBytes = 32

// New genera un token portador opaco, apto para URL.
func New() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
