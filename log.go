package scenegraph

import (
	"fmt"

	"github.com/gekko3d/scenegraph/logging"
)

var logger logging.Logger = logging.NewDefaultLogger("scenegraph", false)

// SetLogger replaces the package logger. A nil logger silences the package.
func SetLogger(l logging.Logger) {
	logger = logging.OrNop(l)
}

// reject logs a rejected structural operation and returns it as an error.
func reject(op string, err error, n *Node) error {
	e := fmt.Errorf("%s %s: %w", op, n, err)
	logger.Errorf("%v", e)
	return e
}
