// Package provider implements the outbound payment-provider gateway and the
// inbound envelope verification for provider events.
package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultSignatureTolerance bounds how old a signed envelope may be before
// it is rejected as a possible replay of a captured request.
const DefaultSignatureTolerance = 5 * time.Minute

// HMACEnvelopeVerifier checks the X-Signature header against a shared
// secret. The scheme matches what subscription providers ship: the header
// carries a unix timestamp and one or more hex HMAC-SHA256 signatures over
// "<timestamp>.<payload>", e.g. "t=1700000000,v1=5257a8...".
type HMACEnvelopeVerifier struct {
	secret    []byte
	tolerance time.Duration
	now       func() time.Time
}

func NewHMACEnvelopeVerifier(secret string, tolerance time.Duration) *HMACEnvelopeVerifier {
	if tolerance <= 0 {
		tolerance = DefaultSignatureTolerance
	}
	return &HMACEnvelopeVerifier{
		secret:    []byte(secret),
		tolerance: tolerance,
		now:       time.Now,
	}
}

// Verify returns nil only for an authentic, fresh envelope. It mutates
// nothing; replayed valid envelopes pass here and are settled by the ledger.
func (v *HMACEnvelopeVerifier) Verify(payload []byte, signatureHeader string) error {
	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return err
	}

	age := v.now().Sub(time.Unix(timestamp, 0))
	if age > v.tolerance || age < -v.tolerance {
		return fmt.Errorf("signature timestamp outside tolerance of %s", v.tolerance)
	}

	expected := computeSignature(v.secret, timestamp, payload)
	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature found")
}

func parseSignatureHeader(header string) (timestamp int64, signatures [][]byte, err error) {
	if header == "" {
		return 0, nil, fmt.Errorf("missing signature header")
	}

	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp, err = strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("invalid signature timestamp: %w", err)
			}
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				// Skip undecodable entries; another v1 may still match.
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp == 0 {
		return 0, nil, fmt.Errorf("signature header has no timestamp")
	}
	if len(signatures) == 0 {
		return 0, nil, fmt.Errorf("signature header has no v1 signature")
	}
	return timestamp, signatures, nil
}

func computeSignature(secret []byte, timestamp int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignPayload produces a header a test provider would send. Exposed for use
// by integration tests and the local event replayer.
func SignPayload(secret string, timestamp time.Time, payload []byte) string {
	ts := timestamp.Unix()
	sig := computeSignature([]byte(secret), ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(sig))
}
