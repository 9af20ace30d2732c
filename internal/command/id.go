package command

import (
	"strconv"
	"time"
)

var nowFn = time.Now

// NewID returns a short correlation token. It is unique enough for one
// request per connection; collisions across processes are harmless.
func NewID() string {
	return "r" + strconv.FormatInt(nowFn().UnixMicro()%1_000_000, 10)
}
