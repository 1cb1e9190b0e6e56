package handler

import (
	"errors"
	"strconv"
)

var errInvalidID = errors.New("invalid id")

func parsePathID(raw string) (uint, error) {
	id64, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id64 == 0 {
		return 0, errInvalidID
	}
	return uint(id64), nil
}
