package scan

import (
	"strconv"
	"strings"
)

// IsPrivateIPv4 reports whether a dotted-quad IPv4 address falls inside
// 10.0.0.0/8, 172.16.0.0/12 or 192.168.0.0/16. Malformed input classifies
// as not private; classification errors are never fatal to the pipeline.
func IsPrivateIPv4(ip string) bool {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return false
	}

	octets := make([]int, 4)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
		octets[i] = n
	}

	switch {
	case octets[0] == 10:
		return true
	case octets[0] == 172 && octets[1] >= 16 && octets[1] <= 31:
		return true
	case octets[0] == 192 && octets[1] == 168:
		return true
	}
	return false
}
