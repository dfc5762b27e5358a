package wire

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/overs/internal/match"
)

// Domain prefixes for hashing. The version suffix allows the encoding to
// change without old digests colliding with new ones.
const (
	DomainDelivery = "overs/delivery/v1"
	DomainMatch    = "overs/match/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + part + 0x00 + part ...).
// The null separators keep part boundaries unambiguous.
func hashWithDomain(domain string, parts ...[]byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	for _, p := range parts {
		h.Write([]byte{0x00})
		h.Write(p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Genesis is the head of a match's chain before any delivery.
func Genesis(matchID string, seed int64) string {
	return hashWithDomain(DomainMatch, []byte(matchID), []byte(fmt.Sprintf("%d", seed)))
}

// Chain is a running hash over a match's deliveries. Each link commits to
// the previous head, so two chains agree only if every delivery agrees.
type Chain struct {
	head string
}

// NewChain starts a chain at head.
func NewChain(head string) *Chain {
	return &Chain{head: head}
}

// Add appends a delivery and returns the new head with the delivery's
// canonical encoding.
func (c *Chain) Add(d match.Delivery) (digest string, payload []byte, err error) {
	payload, err = MarshalDelivery(d)
	if err != nil {
		return "", nil, err
	}
	c.head = hashWithDomain(DomainDelivery, []byte(c.head), payload)
	return c.head, payload, nil
}

// Head returns the current digest.
func (c *Chain) Head() string {
	return c.head
}
