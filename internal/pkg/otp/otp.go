package otp

import (
	"crypto/subtle"
	"encoding/base32"
	"errors"
	"math"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

var (
	// ErrInvalidStep indicates a zero time step.
	ErrInvalidStep = errors.New("otp: step must be positive")
	// ErrInvalidDigits indicates a code length outside 6..8.
	ErrInvalidDigits = errors.New("otp: digits must be between 6 and 8")
	// ErrNegativeTime indicates a timestamp before the unix epoch.
	ErrNegativeTime = errors.New("otp: time is before unix epoch")
	// ErrEmptyKey indicates a missing shared secret.
	ErrEmptyKey = errors.New("otp: key is empty")
)

const (
	minDigits = 6
	maxDigits = 8
)

// Params is the per-call TOTP configuration. The zero value is not usable;
// start from DefaultParams.
type Params struct {
	// Step is the time step in seconds.
	Step uint64
	// Digits is the code length.
	Digits int
	// Window is how many steps before and after the current one are accepted.
	Window uint64
}

// DefaultParams is the RFC 6238 profile used by authenticator apps.
var DefaultParams = Params{Step: 30, Digits: 6, Window: 1}

// Validate reports whether p can drive Generate and Verify.
func (p Params) Validate() error {
	if p.Step == 0 {
		return ErrInvalidStep
	}
	if p.Digits < minDigits || p.Digits > maxDigits {
		return ErrInvalidDigits
	}
	return nil
}

// OTP defines the contract for TOTP operations.
type OTP interface {
	// Generate returns the code for key at the given time.
	Generate(key []byte, at time.Time, p Params) (string, error)
	// Verify reports whether code matches any step inside the window around at.
	Verify(key []byte, code string, at time.Time, p Params) bool
}

// TOTP implements OTP using the Time-based One-Time Password algorithm with
// HMAC-SHA1. It holds no state; every setting travels in Params.
type TOTP struct{}

// NewTOTP constructs a TOTP instance.
func NewTOTP() *TOTP {
	return &TOTP{}
}

// Generate returns the code for key at the given time.
func (*TOTP) Generate(key []byte, at time.Time, p Params) (string, error) {
	return GenerateAt(key, at.Unix(), p)
}

// Verify reports whether code matches any step inside the window around at.
func (*TOTP) Verify(key []byte, code string, at time.Time, p Params) bool {
	return VerifyAt(key, code, at.Unix(), p)
}

// Counter returns floor(unix / step).
func Counter(unix int64, step uint64) (uint64, error) {
	if step == 0 {
		return 0, ErrInvalidStep
	}
	if unix < 0 {
		return 0, ErrNegativeTime
	}
	return uint64(unix) / step, nil
}

// ValidFor returns how many seconds remain in the step containing unix,
// always in [1, step].
func ValidFor(unix int64, step uint64) uint64 {
	if step == 0 || unix < 0 {
		return 0
	}
	return step - uint64(unix)%step
}

// HOTP returns the RFC 4226 code for key at counter.
func HOTP(key []byte, counter uint64, digits int) (string, error) {
	if len(key) == 0 {
		return "", ErrEmptyKey
	}
	if digits < minDigits || digits > maxDigits {
		return "", ErrInvalidDigits
	}

	return hotp.GenerateCodeCustom(base32.StdEncoding.EncodeToString(key), counter, hotp.ValidateOpts{
		Digits:    otp.Digits(digits),
		Algorithm: otp.AlgorithmSHA1,
	})
}

// GenerateAt returns the TOTP code for key at unix seconds.
func GenerateAt(key []byte, unix int64, p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	counter, err := Counter(unix, p.Step)
	if err != nil {
		return "", err
	}

	return HOTP(key, counter, p.Digits)
}

// VerifyAt reports whether code matches a step in
// [counter-Window, counter+Window] at unix seconds. Any malformed input
// yields false.
func VerifyAt(key []byte, code string, unix int64, p Params) bool {
	if p.Validate() != nil || len(key) == 0 || !wellFormed(code, p.Digits) {
		return false
	}

	counter, err := Counter(unix, p.Step)
	if err != nil {
		return false
	}

	lo := uint64(0)
	if counter > p.Window {
		lo = counter - p.Window
	}
	hi := uint64(math.MaxUint64)
	if counter <= math.MaxUint64-p.Window {
		hi = counter + p.Window
	}

	// every candidate is compared so timing does not reveal which step matched
	matched := 0
	for c := lo; ; c++ {
		candidate, err := HOTP(key, c, p.Digits)
		if err == nil {
			matched |= subtle.ConstantTimeCompare([]byte(candidate), []byte(code))
		}
		if c == hi {
			break
		}
	}

	return matched == 1
}

func wellFormed(code string, digits int) bool {
	if len(code) != digits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
