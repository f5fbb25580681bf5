package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
)

// GenerateHash builds the cache key for a resource request: the resource type as a
// prefix, followed by the SHA-256 of the sorted, escaped parameters. Equal parameter
// sets always produce the same key regardless of map order.
func GenerateHash(resourceType string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	query := fmt.Sprintf("resource=%s", url.QueryEscape(resourceType))
	for _, key := range keys {
		query += fmt.Sprintf("&%s=%s", url.QueryEscape(key), url.QueryEscape(params[key]))
	}

	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s:%s", resourceType, hex.EncodeToString(sum[:]))
}
