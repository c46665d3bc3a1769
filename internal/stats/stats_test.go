package stats

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatsUpdater(t *testing.T) {
	su := NewStatsUpdater(http.NewServeMux())
	su.RegisterMetric("TestCounter")
	su.Run()
	defer su.Stop()

	su.Incr("TestCounter")
	su.Incr("TestCounter")
	su.Decr("TestCounter")

	assert.Eventually(t, func() bool {
		return su.vars.Get("TestCounter").String() == "1"
	}, time.Second, 10*time.Millisecond, "expected counter to settle at 1")
}
