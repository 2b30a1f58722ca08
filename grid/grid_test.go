package grid

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vktec/seedfinder"
)

// Slime chunks of seed 12345 for x in [-8, 8), z in [-4, 4)
const map12345 = `
......x.........
............xx..
x.......x.....x.
................
....x......x....
.x....x.....x...
...x...x........
.x..............
`

func TestRenderMatchesKnownMap(t *testing.T) {
	want, err := Parse(strings.NewReader(map12345), -8, -4)
	require.NoError(t, err)
	got := Render(12345, -8, -4, 16, 8, 3)
	assert.Equal(t, want, got)
	assert.Zero(t, got.Mismatches(12345))
	assert.NotZero(t, got.Mismatches(12346))
}

func TestParse(t *testing.T) {
	m, err := Parse(strings.NewReader("# scouted\nx . ?\n. x\n\n"), 10, -3)
	require.NoError(t, err)
	assert.Equal(t, int32(3), m.W)
	assert.Equal(t, int32(2), m.H)
	assert.Equal(t, Slime, m.Get(0, 0))
	assert.Equal(t, Unknown, m.Get(2, 0))
	assert.Equal(t, Unknown, m.Get(2, 1), "short rows are padded")
	assert.Equal(t, 2, m.Count(Slime))

	obs := m.Observations()
	require.Len(t, obs, 4)
	assert.Equal(t, seedfinder.Observation{
		Kind:    seedfinder.SlimeChunk,
		Locator: seedfinder.Chunk(10, -3),
		Value:   seedfinder.Present,
	}, obs[0])
	assert.Equal(t, seedfinder.Chunk(11, -2), obs[3].Locator)
	assert.Equal(t, seedfinder.Present, obs[3].Value)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(strings.NewReader("x.\n.z\n"), 0, 0)
	assert.EqualError(t, err, `line 2, column 2: unexpected 'z'`)
}

func TestWriteReadRoundTrip(t *testing.T) {
	m := Render(99, 100, 200, 20, 10, 0)
	m.Set(3, 4, Unknown)

	var buf bytes.Buffer
	n, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	back, err := Parse(&buf, 100, 200)
	require.NoError(t, err)
	assert.Equal(t, m, back)
}

func TestMask(t *testing.T) {
	donut := Mask{ORad: 2, IRad: 1}
	w, h := donut.Bounds()
	assert.Equal(t, int32(5), w)
	assert.Equal(t, int32(5), h)
	assert.False(t, donut.Query(2, 2), "centre")
	assert.False(t, donut.Query(3, 2), "inside inner radius")
	assert.True(t, donut.Query(4, 2))
	assert.True(t, donut.Query(3, 3))
	assert.False(t, donut.Query(0, 0), "corner")

	m := Render(1, 0, 0, 5, 5, 1)
	Mask{ORad: 1, IRad: -1}.Apply(m)
	assert.Equal(t, 25-5, m.Count(Unknown))
	assert.NotEqual(t, Unknown, m.Get(2, 2))
}

func TestImage(t *testing.T) {
	m, err := Parse(strings.NewReader("x.?"), 0, 0)
	require.NoError(t, err)
	img := m.Image(2)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, slimeChunkColor, img.RGBAAt(1, 1))
	assert.Equal(t, backgroundColor, img.RGBAAt(2, 0))
	assert.Equal(t, unknownColor, img.RGBAAt(5, 1))
}
