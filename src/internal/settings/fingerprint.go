package settings

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint returns the MD5 of the tree's canonical JSON form.
// encoding/json writes map keys in sorted order, so equal trees always
// produce the same fingerprint.
func Fingerprint(t Tree) (string, error) {
	if t == nil {
		t = Tree{}
	}
	jsonBytes, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to marshal settings: %w", err)
	}
	hash := md5.Sum(jsonBytes)
	return hex.EncodeToString(hash[:]), nil
}
