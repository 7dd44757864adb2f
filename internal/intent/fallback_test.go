package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OWENLEEzy/claude-session-analyzer/pkg/models"
)

func TestFallback_LatinTokens(t *testing.T) {
	f := NewFallback(nil)

	intent := f.Extract(context.Background(), "Fix the Authentication bug")

	assert.Equal(t, models.IntentSourceFallback, intent.Source)
	assert.Equal(t, []string{"fix", "authentication", "bug"}, intent.Concepts)
	assert.Equal(t, "Fix the Authentication bug", intent.RawQuery)
}

func TestFallback_EmptyQuery_MeansNoTopicalFilter(t *testing.T) {
	f := NewFallback(nil)

	for _, q := range []string{"", "   ", "\t\n"} {
		intent := f.Extract(context.Background(), q)
		assert.Empty(t, intent.Concepts, "query %q", q)
		assert.Equal(t, models.IntentSourceFallback, intent.Source)
	}
}

func TestFallback_StopwordOnlyQueryDegenerates(t *testing.T) {
	f := NewFallback(nil)

	intent := f.Extract(context.Background(), "the for to and")
	assert.Empty(t, intent.Concepts)
}

func TestFallback_CJKQuery_YieldsConcepts(t *testing.T) {
	f := NewFallback(nil)

	// No external credential involved: the fallback alone must cope with a
	// CJK-only query.
	intent := f.Extract(context.Background(), "昨天做了什么")

	require.NotEmpty(t, intent.Concepts)
	assert.Contains(t, intent.Concepts, "昨天")
	assert.Equal(t, models.IntentSourceFallback, intent.Source)
}

func TestFallback_MixedScripts(t *testing.T) {
	f := NewFallback(nil)

	intent := f.Extract(context.Background(), "修复auth问题")

	assert.Equal(t, []string{"修复", "auth", "问题"}, intent.Concepts)
}

func TestFallback_SingleCharLatinDropped(t *testing.T) {
	f := NewFallback(nil)

	intent := f.Extract(context.Background(), "a b deploy c")
	assert.Equal(t, []string{"deploy"}, intent.Concepts)
}

func TestFallback_DedupeAndCap(t *testing.T) {
	f := NewFallback(nil)

	intent := f.Extract(context.Background(), "auth auth auth login")
	assert.Equal(t, []string{"auth", "login"}, intent.Concepts)

	intent = f.Extract(context.Background(), "one two three four five six seven")
	assert.Len(t, intent.Concepts, MaxConcepts)
}

func TestFallback_ExtraStopwords(t *testing.T) {
	f := NewFallback([]string{"project"})

	intent := f.Extract(context.Background(), "project deploy")
	assert.Equal(t, []string{"deploy"}, intent.Concepts)
}

func TestFallback_Deterministic(t *testing.T) {
	f := NewFallback(nil)

	first := f.Extract(context.Background(), "搜索 authentication 历史记录")
	second := f.Extract(context.Background(), "搜索 authentication 历史记录")
	assert.Equal(t, first, second)
}
