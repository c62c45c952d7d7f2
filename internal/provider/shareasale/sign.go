package shareasale

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Sign computes the ShareASale request signature: a hex SHA-256 digest
// over "token:timestamp:action:secret". The timestamp must match the
// x-ShareASale-Date header byte for byte or the API rejects the call.
func Sign(token, timestamp, action, secret string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%s:%s", token, timestamp, action, secret)))
	return hex.EncodeToString(sum[:])
}
