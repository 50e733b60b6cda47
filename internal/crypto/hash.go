package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

var (
	ErrInvalidHashFormat   = errors.New("invalid encoded hash format")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	ErrUnknownAlgorithm    = errors.New("unknown password hashing algorithm")
)

// Argon2Params are the cost settings written into every argon2id hash.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns the settings used for new profile passwords.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// PasswordHasher hashes new passwords with one algorithm and verifies
// hashes produced by any supported algorithm. Verification always uses the
// parameters stored in the hash, so changing them does not lock anyone out.
type PasswordHasher struct {
	algorithm  string
	params     Argon2Params
	bcryptCost int
}

// NewPasswordHasher returns a hasher for the named algorithm.
func NewPasswordHasher(algorithm string) (*PasswordHasher, error) {
	switch algorithm {
	case AlgorithmArgon2id, AlgorithmBcrypt:
		return &PasswordHasher{
			algorithm:  algorithm,
			params:     DefaultArgon2Params(),
			bcryptCost: bcrypt.DefaultCost,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// Algorithm reports the algorithm used for new hashes.
func (h *PasswordHasher) Algorithm() string { return h.algorithm }

// Hash hashes a password with the configured algorithm.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.algorithm == AlgorithmBcrypt {
		b, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return string(b), nil
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}
	return argon2Hash{params: h.params, salt: salt, key: h.params.key(password, salt)}.String(), nil
}

// Verify checks a password against an argon2id or bcrypt encoded hash.
func (h *PasswordHasher) Verify(password, encodedHash string) (bool, error) {
	if isBcryptHash(encodedHash) {
		err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	}

	stored, err := parseArgon2Hash(encodedHash)
	if err != nil {
		return false, err
	}
	candidate := stored.params.key(password, stored.salt)
	return subtle.ConstantTimeCompare(stored.key, candidate) == 1, nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func (p Argon2Params) key(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)
}

// argon2Hash is the PHC string form:
// $argon2id$v=19$m=65536,t=3,p=2$<base64 salt>$<base64 key>
type argon2Hash struct {
	params Argon2Params
	salt   []byte
	key    []byte
}

func (a argon2Hash) String() string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		AlgorithmArgon2id,
		argon2.Version,
		a.params.Memory, a.params.Iterations, a.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(a.salt),
		base64.RawStdEncoding.EncodeToString(a.key),
	)
}

func parseArgon2Hash(encoded string) (argon2Hash, error) {
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != AlgorithmArgon2id {
		return argon2Hash{}, ErrInvalidHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return argon2Hash{}, ErrInvalidHashFormat
	}
	if version != argon2.Version {
		return argon2Hash{}, ErrIncompatibleVersion
	}

	var a argon2Hash
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &a.params.Memory, &a.params.Iterations, &a.params.Parallelism); err != nil {
		return argon2Hash{}, ErrInvalidHashFormat
	}

	var err error
	if a.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil || len(a.salt) == 0 {
		return argon2Hash{}, ErrInvalidHashFormat
	}
	if a.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil || len(a.key) == 0 {
		return argon2Hash{}, ErrInvalidHashFormat
	}
	a.params.SaltLength = uint32(len(a.salt))
	a.params.KeyLength = uint32(len(a.key))
	return a, nil
}
