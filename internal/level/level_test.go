package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPackChainsHeights(t *testing.T) {
	pack := DefaultPack()
	require.Greater(t, pack.Len(), 1)

	assert.Equal(t, 0.0, pack[0].BaseHeight)
	for i := 1; i < pack.Len(); i++ {
		assert.Equal(t, pack[i-1].TargetHeight, pack[i].BaseHeight, "level %d should start at previous target", i+1)
		assert.Equal(t, i, pack[i].Index)
	}
}

func TestParsePackExplicitBase(t *testing.T) {
	data := []byte(`
levels:
  - name: one
    target_height: 10
    block_types: 1
  - name: two
    base_height: 3
    target_height: 12
    block_types: 2
    wind_policy: banded
    hazards:
      wind: true
      rain: true
`)
	pack, err := ParsePack(data)
	require.NoError(t, err)
	require.Len(t, pack, 2)

	assert.Equal(t, 3.0, pack[1].BaseHeight)
	assert.Equal(t, WindBanded, pack[1].Policy())
	assert.True(t, pack[1].Hazards.Wind)
	assert.True(t, pack[1].Hazards.Rain)
}

func TestParsePackRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", "levels: []"},
		{"target below base", "levels:\n  - name: x\n    base_height: 5\n    target_height: 4\n    block_types: 1\n"},
		{"negative block types", "levels:\n  - name: x\n    target_height: 4\n    block_types: -1\n"},
		{"unknown policy", "levels:\n  - name: x\n    target_height: 4\n    block_types: 1\n    wind_policy: sideways\n"},
		{"bad yaml", "levels: [:"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePack([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestParsePackDefaultName(t *testing.T) {
	pack, err := ParsePack([]byte("levels:\n  - target_height: 4\n    block_types: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, "Level 1", pack[0].Name)
	assert.Equal(t, 1, pack[0].Number())
}

func TestWeatherRules(t *testing.T) {
	global := Config{Hazards: Hazards{Wind: true, Rain: true}}
	rules := global.WeatherRules()
	assert.True(t, rules.ForceWindy, "wind defaults to the global policy")
	assert.True(t, rules.AllowRain)

	banded := Config{Hazards: Hazards{Wind: true}, WindPolicy: WindBanded}
	rules = banded.WeatherRules()
	assert.False(t, rules.ForceWindy)
	assert.True(t, rules.AllowWind)

	calm := Config{}
	assert.Equal(t, false, calm.WeatherRules().ForceWindy)
	assert.Equal(t, false, calm.WeatherRules().AllowWind)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{Name: "ok", TargetHeight: 10, BlockTypes: 1}.Validate())
	assert.ErrorIs(t, Config{Name: "flat", TargetHeight: 0}.Validate(), ErrInvalid)
	assert.NoError(t, Endless(3).Validate(), "endless ignores the target")
	assert.False(t, Endless(3).LevelMode())
}

func TestPackGet(t *testing.T) {
	pack := DefaultPack()
	_, ok := pack.Get(-1)
	assert.False(t, ok)
	_, ok = pack.Get(pack.Len())
	assert.False(t, ok)
	first, ok := pack.Get(0)
	assert.True(t, ok)
	assert.Equal(t, pack.Names()[0], first.Name)
}
