package server

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
)

// newRoomCode returns a four-digit code in 1000-9999. Uniqueness against
// live rooms is probabilistic only; collisions are tolerated, not
// checked for.
func newRoomCode() string {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "1000"
	}
	n := int(binary.BigEndian.Uint16(buf[:]))%9000 + 1000
	return strconv.Itoa(n)
}
