package utils

import (
	"strings"

	"github.com/google/uuid"
)

// userIDLength matches the identifier width of externally issued identities
// (e.g. Firebase UIDs), so locally generated ids are indistinguishable.
const userIDLength = 28

// GenerateUserID produces a random identifier for accounts that were not
// created through an upstream identity provider.
func GenerateUserID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return raw[:userIDLength]
}
