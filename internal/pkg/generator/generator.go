package generator

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// PaymentReference builds a transaction id for the simulated mobile money
// flow: millisecond timestamp plus a random hex suffix.
func (g *Generator) PaymentReference(now time.Time) string {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Sprintf("TXN-%d", now.UnixMilli())
	}
	return fmt.Sprintf("TXN-%d-%s", now.UnixMilli(), hex.EncodeToString(randomBytes))
}

func (g *Generator) ClientID() string {
	randomBytes := make([]byte, 5)
	if _, err := rand.Read(randomBytes); err != nil {
		return ""
	}
	return fmt.Sprintf("MC-%s", hex.EncodeToString(randomBytes))
}
