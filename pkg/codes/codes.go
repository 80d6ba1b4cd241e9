package codes

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	accessCodePrefix  = "WIFI-"
	accessCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	accessCodeLength  = 6
)

// GenerateAccessCode returns a code like WIFI-4K7Q2Z. The code is shown to the
// visitor as proof of registration; it is not an authentication token and is
// not checked for uniqueness against existing records.
func GenerateAccessCode() string {
	var b strings.Builder
	b.WriteString(accessCodePrefix)
	for i := 0; i < accessCodeLength; i++ {
		b.WriteByte(accessCodeCharset[rand.Intn(len(accessCodeCharset))])
	}
	return b.String()
}

// GenerateSessionID synthesizes a session identifier when the captive portal
// page did not send one: millisecond timestamp plus a short random suffix.
func GenerateSessionID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
