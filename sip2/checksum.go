package sip2

import (
	"fmt"
	"strconv"
)

// Minimum lengths for a checksum-carrying message: the bare resend request
// (97AZxxxx) is 8 characters, everything else carries at least a sequence
// trailer too.
const (
	minChecksumLenResend = 8
	minChecksumLen       = 11
)

// ComputeChecksum sums the unsigned byte value of every character in text
// (which must already end with the AZ tag) and returns the 4-digit upper-case
// hexadecimal two's complement of the sum.
func ComputeChecksum(text string) string {
	var sum uint16
	for i := 0; i < len(text); i++ {
		sum += uint16(text[i])
	}
	return fmt.Sprintf("%04X", -sum&0xFFFF)
}

// HasChecksumTrailer reports whether raw ends in an AZ<4-hex> checksum
// trailer. Messages without one are legal and run in degraded mode, so
// callers must not verify what was never transmitted.
func HasChecksumTrailer(raw string) bool {
	n := len(raw)
	if n < 6 || raw[n-6:n-4] != "AZ" {
		return false
	}

	_, err := strconv.ParseUint(raw[n-4:], 16, 32)

	return err == nil
}

// VerifyChecksum checks the integrity of a raw message whose last four
// characters are the transmitted checksum. The message is valid iff the byte
// sum over the text up to and including the AZ tag, plus the transmitted
// checksum value, is zero modulo 2^16.
func VerifyChecksum(raw string) bool {
	minLen := minChecksumLen
	if len(raw) >= 2 && raw[:2] == CmdRequestACSResend {
		minLen = minChecksumLenResend
	}
	if len(raw) < minLen {
		return false
	}

	transmitted, err := strconv.ParseUint(raw[len(raw)-4:], 16, 32)
	if err != nil {
		return false
	}

	var sum uint32
	for i := 0; i < len(raw)-4; i++ {
		sum += uint32(raw[i])
	}
	sum += uint32(transmitted)

	return sum&0xFFFF == 0
}
