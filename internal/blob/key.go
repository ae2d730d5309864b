package blob

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

var unsafeKeyChars = regexp.MustCompile(`[^\w.\-]+`)

// ObjectKey builds a bucket key for an attachment: the owning task id
// as a prefix, then a fresh uuid so repeated uploads of the same file
// name never collide.
func ObjectKey(taskID, filename string) string {
	return fmt.Sprintf("%s/%s-%s", sanitizeSegment(taskID), uuid.NewString(), sanitizeSegment(filename))
}

func sanitizeSegment(s string) string {
	cleaned := unsafeKeyChars.ReplaceAllString(s, "_")
	if cleaned == "" {
		return "_"
	}
	return cleaned
}
