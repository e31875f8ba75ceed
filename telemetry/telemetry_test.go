package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTimingCollector(t *testing.T) {
	collector := NewTimingCollector()

	root := collector.Start("check")
	fetch := root.Child("fetch accounts")
	fetch.Child("page 1").End()
	fetch.End()
	root.Child("analyze").End()
	root.End()

	var sb strings.Builder
	collector.Report(&sb, nil)

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	assert.Equal(t, 4, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "check: "))
	assert.True(t, strings.HasPrefix(lines[1], "├─ fetch accounts: "))
	assert.True(t, strings.HasPrefix(lines[2], "│  └─ page 1: "))
	assert.True(t, strings.HasPrefix(lines[3], "└─ analyze: "))
}

func TestTimingCollector_EmptyReport(t *testing.T) {
	var sb strings.Builder
	NewTimingCollector().Report(&sb, nil)
	assert.Equal(t, "", sb.String())
}

func TestStartTimer(t *testing.T) {
	t.Run("NoCollector", func(t *testing.T) {
		timer := StartTimer(context.Background(), "orphan")
		timer.Child("nested").End()
		timer.End()
	})

	t.Run("NestsUnderContextTimer", func(t *testing.T) {
		collector := NewTimingCollector()
		ctx := WithCollector(context.Background(), collector)

		root := StartTimer(ctx, "pipeline")
		ctx = WithTimer(ctx, root)

		StartTimer(ctx, "step").End()
		root.End()

		var sb strings.Builder
		collector.Report(&sb, nil)
		assert.Contains(t, sb.String(), "pipeline: ")
		assert.Contains(t, sb.String(), "└─ step: ")
	})
}
