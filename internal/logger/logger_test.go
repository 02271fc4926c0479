package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	cases := map[string]zap.AtomicLevel{
		"debug": zap.NewAtomicLevelAt(zap.DebugLevel),
		"warn":  zap.NewAtomicLevelAt(zap.WarnLevel),
		"":      zap.NewAtomicLevelAt(zap.InfoLevel),
		"bogus": zap.NewAtomicLevelAt(zap.InfoLevel),
	}
	for in, want := range cases {
		l, err := New(in, "console")
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(want.Level()), "level %q", in)
		if want.Level() > zap.DebugLevel {
			assert.False(t, l.Core().Enabled(want.Level()-1), "level %q", in)
		}
	}
}
