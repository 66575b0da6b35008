package id

import (
	"strings"

	"github.com/google/uuid"
)

/**
 * @author: gagral.x@gmail.com
 * @time: 2025/6/16 0:34
 * @file: uuid.go
 * @description: id util
 */

// GetUUID generates a new UUID
func GetUUID() string {
	return uuid.NewString()
}

// GetUUIDWithoutDashes generates a new UUID not horizontal line
func GetUUIDWithoutDashes() string {
	return strings.Replace(uuid.NewString(), "-", "", -1)
}
