package server

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxNicknameLength = 20
	roomCodeLength    = 4
)

func validateNickname(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errors.New("nickname is required")
	}
	if len(trimmed) > maxNicknameLength {
		return "", fmt.Errorf("nickname must be %d characters or fewer", maxNicknameLength)
	}
	if !isSafeText(trimmed) {
		return "", errors.New("nickname contains unsupported characters")
	}
	return trimmed, nil
}

func validateRoomCode(code string) (string, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "", errors.New("room code is required")
	}
	if len(trimmed) != roomCodeLength {
		return "", fmt.Errorf("room code must be %d digits", roomCodeLength)
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return "", errors.New("room code must be numeric")
		}
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '.', '!', '?':
			continue
		default:
			return false
		}
	}
	return true
}
