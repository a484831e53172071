// Package strcipher decodes string-pool entries. Each entry is base64 text
// holding RC4 ciphertext; the key is given at the call site that reads the
// entry. Plaintext bytes map one-to-one onto runes U+0000..U+00FF.
package strcipher

import (
	"bytes"
	"crypto/cipher"
	"crypto/rc4"
	"encoding/base64"
	"io"
	"strconv"
	"strings"
)

type cipherError string

func (e cipherError) Error() string {
	return "jsdeob/strcipher: " + string(e)
}

const (
	// ErrKey is returned for keys that are empty, longer than 256 bytes or
	// contain runes outside Latin-1.
	ErrKey = cipherError("invalid key")
	// ErrText is returned when plaintext given to Encode has runes outside
	// Latin-1.
	ErrText = cipherError("plaintext is not latin-1")
)

type Key []byte

// NewKey converts s to its Latin-1 bytes.
func NewKey(s string) (Key, error) {
	b, ok := latin1(s)
	if !ok {
		return nil, ErrKey
	}
	if size := len(b); size < 1 || size > 256 {
		return nil, cipherError("invalid key size: " + strconv.Itoa(size))
	}
	return b, nil
}

// Stream returns a fresh keystream for k.
func (k Key) Stream() (cipher.Stream, error) {
	c, err := rc4.NewCipher(k)
	if err != nil {
		return nil, ErrKey
	}
	return c, nil
}

// Deobfuscate reads base64 ciphertext from rd and writes the plaintext to wr.
func (k Key) Deobfuscate(wr io.Writer, rd io.Reader, enc *base64.Encoding) error {
	s, err := k.Stream()
	if err != nil {
		return err
	}
	_, err = io.Copy(wr, cipher.StreamReader{
		S: s,
		R: base64.NewDecoder(encoding(enc), rd),
	})
	return err
}

// Obfuscate reads plaintext from rd and writes base64 ciphertext to wr.
func (k Key) Obfuscate(wr io.Writer, rd io.Reader, enc *base64.Encoding) error {
	s, err := k.Stream()
	if err != nil {
		return err
	}
	b64 := base64.NewEncoder(encoding(enc), wr)
	if _, err := io.Copy(cipher.StreamWriter{S: s, W: b64}, rd); err != nil {
		return err
	}
	return b64.Close()
}

// Decode decrypts one pool token with the given key.
func Decode(token, key string, enc *base64.Encoding) (string, error) {
	k, err := NewKey(key)
	if err != nil {
		return "", err
	}

	buf := bytes.NewBuffer(nil)
	if err := k.Deobfuscate(buf, strings.NewReader(pad(token)), enc); err != nil {
		return "", err
	}

	out := make([]rune, buf.Len())
	for i, b := range buf.Bytes() {
		out[i] = rune(b)
	}
	return string(out), nil
}

// Encode is the inverse of Decode.
func Encode(plain, key string, enc *base64.Encoding) (string, error) {
	k, err := NewKey(key)
	if err != nil {
		return "", err
	}
	b, ok := latin1(plain)
	if !ok {
		return "", ErrText
	}

	buf := bytes.NewBuffer(nil)
	if err := k.Obfuscate(buf, bytes.NewReader(b), enc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encoding(enc *base64.Encoding) *base64.Encoding {
	if enc == nil {
		return base64.StdEncoding
	}
	return enc
}

// pad restores '=' padding that some pools strip.
func pad(token string) string {
	token = strings.TrimSpace(token)
	if n := len(token) % 4; n != 0 && !strings.HasSuffix(token, "=") {
		token += strings.Repeat("=", 4-n)
	}
	return token
}

func latin1(s string) ([]byte, bool) {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			return nil, false
		}
		b = append(b, byte(r))
	}
	return b, true
}
