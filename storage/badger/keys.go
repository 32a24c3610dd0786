package badger

import "strings"

// embeddingPrefix namespaces cache entries inside the database.
const embeddingPrefix = "embeddings:"

// makeEmbeddingKey generates the database key for a category cache key.
func makeEmbeddingKey(key string) []byte {
	return []byte(embeddingPrefix + key)
}

// cacheKeyFromDBKey extracts the category key from a database key.
func cacheKeyFromDBKey(dbKey []byte) (string, bool) {
	return strings.CutPrefix(string(dbKey), embeddingPrefix)
}
