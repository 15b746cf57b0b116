package ident

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// New returns a unique record identifier: a millisecond timestamp joined
// with a short random suffix. The timestamp keeps identifiers roughly
// sortable by creation; the suffix guards against same-millisecond
// collisions.
func New() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
