package app

import (
	"os"
	"sync"
)

const testModeEnv = "NEXSTOCK_TEST_MODE"

var testMode = sync.OnceValue(func() bool {
	return os.Getenv(testModeEnv) == "1"
})

// InTestMode reports whether the process runs under go test, where main must
// not start the server.
func InTestMode() bool {
	return testMode()
}
