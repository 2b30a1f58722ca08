package biome

import (
	"image"
	"image/color"
)

var palette = map[ID]color.RGBA{
	Ocean:                 {0, 0, 112, 255},
	Plains:                {141, 179, 96, 255},
	Desert:                {250, 148, 24, 255},
	Mountains:             {96, 96, 96, 255},
	Forest:                {5, 102, 33, 255},
	Taiga:                 {11, 102, 89, 255},
	Swamp:                 {7, 249, 178, 255},
	River:                 {0, 0, 255, 255},
	FrozenRiver:           {160, 160, 255, 255},
	SnowyTundra:           {255, 255, 255, 255},
	SnowyMountains:        {160, 160, 160, 255},
	MushroomFields:        {255, 0, 255, 255},
	MushroomFieldShore:    {160, 0, 255, 255},
	Beach:                 {250, 222, 85, 255},
	DesertHills:           {210, 95, 18, 255},
	WoodedHills:           {34, 85, 28, 255},
	TaigaHills:            {22, 57, 51, 255},
	MountainEdge:          {114, 120, 154, 255},
	Jungle:                {83, 123, 9, 255},
	JungleHills:           {44, 66, 5, 255},
	JungleEdge:            {98, 139, 23, 255},
	DeepOcean:             {0, 0, 48, 255},
	StoneShore:            {162, 162, 132, 255},
	SnowyBeach:            {250, 240, 192, 255},
	BirchForest:           {48, 116, 68, 255},
	BirchForestHills:      {31, 95, 50, 255},
	DarkForest:            {64, 81, 26, 255},
	SnowyTaiga:            {49, 85, 74, 255},
	SnowyTaigaHills:       {36, 63, 54, 255},
	GiantTreeTaiga:        {89, 102, 81, 255},
	GiantTreeTaigaHills:   {69, 79, 62, 255},
	WoodedMountains:       {80, 112, 80, 255},
	Savanna:               {189, 178, 95, 255},
	SavannaPlateau:        {167, 157, 100, 255},
	Badlands:              {217, 69, 21, 255},
	WoodedBadlandsPlateau: {176, 151, 101, 255},
	BadlandsPlateau:       {202, 140, 101, 255},
}

var unknownBiomeColor = color.RGBA{0, 0, 0, 255}

// Color returns the map colour of id. Mutated biomes are a lighter shade of
// their base biome.
func Color(id ID) color.RGBA {
	if c, ok := palette[id]; ok {
		return c
	}
	if id >= mutation {
		if c, ok := palette[id-mutation]; ok {
			return color.RGBA{lighten(c.R), lighten(c.G), lighten(c.B), 255}
		}
	}
	if Oceanic(id) {
		return palette[Ocean]
	}
	return unknownBiomeColor
}

func lighten(v uint8) uint8 {
	return uint8(min(int(v)+40, 255))
}

// Image draws the map at scale pixels per cell.
func (m *Map) Image(scale int) *image.RGBA {
	scale = max(scale, 1)
	img := image.NewRGBA(image.Rect(0, 0, m.W*scale, m.H*scale))
	for j := 0; j < m.H; j++ {
		for i := 0; i < m.W; i++ {
			c := Color(m.get(i, j))
			for py := 0; py < scale; py++ {
				for px := 0; px < scale; px++ {
					img.SetRGBA(i*scale+px, j*scale+py, c)
				}
			}
		}
	}
	return img
}
