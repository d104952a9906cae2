package aprs

import (
	"fmt"
	"strings"
)

// passcodeSeed is the initial hash value of the APRS-IS passcode algorithm.
const passcodeSeed = 0x73e2

// CalculatePasscode generates the APRS-IS passcode for a callsign. The SSID
// does not take part.
func CalculatePasscode(callsign string) (int, error) {
	call, _, _ := strings.Cut(strings.ToUpper(callsign), "-")
	if len(call) < 1 || len(call) > 6 {
		return 0, fmt.Errorf("invalid callsign format for passcode: %s", callsign)
	}

	hash := passcodeSeed
	for i := 0; i < len(call); i++ {
		// Even positions go in the high byte, odd in the low byte
		if i%2 == 0 {
			hash ^= int(call[i]) << 8
		} else {
			hash ^= int(call[i])
		}
	}
	return hash & 0x7fff, nil
}

// VerifyPasscode reports whether passcode belongs to callsign.
func VerifyPasscode(callsign string, passcode int) bool {
	want, err := CalculatePasscode(callsign)
	return err == nil && want == passcode
}
