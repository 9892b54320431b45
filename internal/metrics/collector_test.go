package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSessionCollector_ReadsLiveCount(t *testing.T) {
	count := 0
	c := NewSessionCollector(func() int { return count })

	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}

	expect := func(want string) {
		t.Helper()
		if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "weeding_open_upload_sessions"); err != nil {
			t.Error(err)
		}
	}

	expect(`
# HELP weeding_open_upload_sessions Number of currently open chunked upload sessions
# TYPE weeding_open_upload_sessions gauge
weeding_open_upload_sessions 0
`)

	count = 3
	expect(`
# HELP weeding_open_upload_sessions Number of currently open chunked upload sessions
# TYPE weeding_open_upload_sessions gauge
weeding_open_upload_sessions 3
`)
}
