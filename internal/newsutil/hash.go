package newsutil

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// ArticleID derives the storage key for an article from its raw title and
// description. The same content always hashes to the same key, which is how
// re-collected items collapse into a single row.
func ArticleID(title, description string) string {
	sum := md5.Sum([]byte(title + description))
	return hex.EncodeToString(sum[:])
}

// AnalysisID derives a row key for an analysis from the source name and the
// moment it was produced.
func AnalysisID(source string, t time.Time) string {
	sum := md5.Sum([]byte(source + t.UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])
}
