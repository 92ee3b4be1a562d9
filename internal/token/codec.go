// Package token implements the deterministic, HMAC-signed stateless
// identifier scheme used for matching-result recall.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fairyhunter13/resume-job-matcher/internal/domain"
)

const version = "v1"

// payload is the JSON body carried inside the token; field names are the
// wire contract from §6 and must not change.
type payload struct {
	ResumeID string `json:"resume_id"`
	JobID    string `json:"job_id"`
}

// Codec implements domain.TokenCodec with an HMAC-SHA256 signature over a
// version-prefixed, base64url-encoded JSON payload.
type Codec struct {
	secret []byte
}

// NewCodec builds a Codec from a process-level secret. An empty secret is
// permitted by the type system but produces tokens any party could forge;
// callers are expected to supply a real secret at startup.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

var _ domain.TokenCodec = (*Codec)(nil)

// Encode builds "v1.<payload_b64>.<sig_b64>" for resumeID and jobID.
func (c *Codec) Encode(resumeID, jobID string) (string, error) {
	body, err := json.Marshal(payload{ResumeID: resumeID, JobID: jobID})
	if err != nil {
		return "", fmt.Errorf("op=token.Encode: %w", err)
	}
	payloadB64 := base64.RawURLEncoding.EncodeToString(body)
	signed := version + "." + payloadB64
	sig := c.sign(signed)
	return signed + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}

// Decode splits token on ".", verifies the version and HMAC signature in
// constant time, then returns the ids it was built from. Malformed tokens,
// wrong versions, and signature mismatches all surface as
// domain.ErrInvalidToken (indistinguishable by design, per §7).
func (c *Codec) Decode(token string) (resumeID, jobID string, err error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", "", domain.ErrInvalidToken
	}
	if parts[0] != version {
		return "", "", domain.ErrInvalidToken
	}

	signed := parts[0] + "." + parts[1]
	wantSig := c.sign(signed)

	gotSig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", "", domain.ErrInvalidToken
	}
	if !hmac.Equal(wantSig, gotSig) {
		return "", "", domain.ErrInvalidToken
	}

	body, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", "", domain.ErrInvalidToken
	}
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return "", "", domain.ErrInvalidToken
	}
	return p.ResumeID, p.JobID, nil
}

func (c *Codec) sign(signed string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(signed))
	return mac.Sum(nil)
}
