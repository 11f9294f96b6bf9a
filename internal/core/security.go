// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const saltLen = 16

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

// argonCurrent is used for every new hash. Hashes stored with other
// parameters still verify and are replaced on the next successful login.
var argonCurrent = argonParams{memory: 64 * 1024, time: 1, threads: 4, keyLen: 32}

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

func (p argonParams) encode(salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

// parseArgon splits $argon2id$v=19$m=..,t=..,p=..$salt$key.
func parseArgon(encoded string) (argonParams, []byte, []byte, error) {
	var p argonParams

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[1] != "argon2id" {
		return p, nil, nil, errors.New("not an argon2id hash")
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return p, nil, nil, fmt.Errorf("unsupported argon2 version %q", fields[2])
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, fmt.Errorf("argon2 parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("argon2 salt: %w", err)
	}

	key, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("argon2 key: %w", err)
	}

	//nolint:gosec // G115: argon2 keys are a few dozen bytes
	p.keyLen = uint32(len(key))

	return p, salt, key, nil
}

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	return argonCurrent.encode(salt, argonCurrent.derive(password, salt)), nil
}

// isBcrypt reports hashes carried over from accounts created before argon2id
// was adopted.
func isBcrypt(stored string) bool {
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(stored, prefix) {
			return true
		}
	}
	return false
}

func VerifyPassword(password, stored string) (bool, error) {
	if isBcrypt(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("bcrypt compare: %w", err)
		}
	}

	params, salt, key, err := parseArgon(stored)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(key, params.derive(password, salt)) == 1, nil
}

// PasswordCheck is the outcome of comparing a password with a stored hash.
// Upgrade holds a replacement hash when the stored one is bcrypt or uses
// parameters other than argonCurrent.
type PasswordCheck struct {
	Match   bool
	Upgrade string
}

func CheckPassword(password, stored string) (PasswordCheck, error) {
	ok, err := VerifyPassword(password, stored)
	if err != nil || !ok {
		return PasswordCheck{}, err
	}

	check := PasswordCheck{Match: true}
	if params, _, _, parseErr := parseArgon(stored); parseErr == nil && params == argonCurrent {
		return check, nil
	}

	// A failed upgrade only delays the migration to the next login.
	if upgraded, hashErr := HashPassword(password); hashErr == nil {
		check.Upgrade = upgraded
	}
	return check, nil
}

var decoyHash = sync.OnceValue(func() string {
	h, err := HashPassword("propixel-login-decoy")
	if err != nil {
		panic(fmt.Sprintf("core: build decoy hash: %v", err))
	}
	return h
})

// CheckLoginPassword behaves like CheckPassword but spends the same argon2
// work when the account does not exist (stored is nil or empty), so login
// latency does not reveal which emails are registered.
func CheckLoginPassword(password string, stored *string) (PasswordCheck, error) {
	if stored == nil || *stored == "" {
		_, _ = CheckPassword(password, decoyHash())
		return PasswordCheck{}, nil
	}
	return CheckPassword(password, *stored)
}

// NewSessionSecret returns a random 256-bit refresh secret, URL safe.
func NewSessionSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read session secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashSecret is the form session secrets are stored and looked up in.
func HashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
