package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// clientIDPattern is "s_" + canonical lowercase uuid + ":" + unix millis.
var clientIDPattern = regexp.MustCompile(`^s_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}:[0-9]+$`)

// NewClientID mints an opaque client id.
func NewClientID(now time.Time) string {
	return "s_" + uuid.NewString() + ":" + strconv.FormatInt(now.UnixMilli(), 10)
}

// ValidClientID reports whether id has the client id format.
func ValidClientID(id string) bool {
	return clientIDPattern.MatchString(id)
}

// StorageKey hashes a client id with a server-side salt.
// The raw id never reaches the store.
func StorageKey(salt, id string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}
