package congc

import "github.com/sirupsen/logrus"

// logPhase emits one Debug-level structured line for a collection phase.
// The logger is optional, and logrus's *Entry is not itself nil-safe, so
// every call site must guard with this helper rather than calling
// logger.WithFields directly.
func logPhase(logger *logrus.Entry, phase string, fields logrus.Fields) {
	if logger == nil {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["phase"] = phase
	logger.WithFields(fields).Debug("collection phase")
}

// logFatal emits an Error-level diagnostic before the process terminates.
func logFatal(logger *logrus.Entry, reason string, fields logrus.Fields) {
	if logger == nil {
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	logger.WithFields(fields).Error(reason)
}
