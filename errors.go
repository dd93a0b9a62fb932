package congc

import (
	"os"

	"github.com/sirupsen/logrus"
)

// exitFunc terminates the process on allocator exhaustion. It is a var, not
// a direct os.Exit call, so tests can substitute a capturing function.
var exitFunc = os.Exit

// fatal logs a diagnostic and terminates the process via exitFunc: allocator
// exhaustion is fatal, never propagated as an error value.
func (c *Collector) fatal(reason string, fields logrus.Fields) {
	logFatal(c.logger, reason, fields)
	exitFunc(2)
}
