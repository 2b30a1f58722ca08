// Package biome reimplements the layered overworld biome generator of
// Minecraft 1.13 closely enough to answer "which biome is at this block" for
// any 64-bit world seed.
package biome

import (
	"fmt"
	"strconv"
	"strings"
)

// ID is a numeric biome id as the game stores it.
type ID = int32

const (
	Ocean                         ID = 0
	Plains                        ID = 1
	Desert                        ID = 2
	Mountains                     ID = 3
	Forest                        ID = 4
	Taiga                         ID = 5
	Swamp                         ID = 6
	River                         ID = 7
	Nether                        ID = 8
	TheEnd                        ID = 9
	FrozenOcean                   ID = 10
	FrozenRiver                   ID = 11
	SnowyTundra                   ID = 12
	SnowyMountains                ID = 13
	MushroomFields                ID = 14
	MushroomFieldShore            ID = 15
	Beach                         ID = 16
	DesertHills                   ID = 17
	WoodedHills                   ID = 18
	TaigaHills                    ID = 19
	MountainEdge                  ID = 20
	Jungle                        ID = 21
	JungleHills                   ID = 22
	JungleEdge                    ID = 23
	DeepOcean                     ID = 24
	StoneShore                    ID = 25
	SnowyBeach                    ID = 26
	BirchForest                   ID = 27
	BirchForestHills              ID = 28
	DarkForest                    ID = 29
	SnowyTaiga                    ID = 30
	SnowyTaigaHills               ID = 31
	GiantTreeTaiga                ID = 32
	GiantTreeTaigaHills           ID = 33
	WoodedMountains               ID = 34
	Savanna                       ID = 35
	SavannaPlateau                ID = 36
	Badlands                      ID = 37
	WoodedBadlandsPlateau         ID = 38
	BadlandsPlateau               ID = 39
	SmallEndIslands               ID = 40
	EndMidlands                   ID = 41
	EndHighlands                  ID = 42
	EndBarrens                    ID = 43
	WarmOcean                     ID = 44
	LukewarmOcean                 ID = 45
	ColdOcean                     ID = 46
	DeepWarmOcean                 ID = 47
	DeepLukewarmOcean             ID = 48
	DeepColdOcean                 ID = 49
	DeepFrozenOcean               ID = 50
	TheVoid                       ID = 127
	SunflowerPlains               ID = 129
	DesertLakes                   ID = 130
	GravellyMountains             ID = 131
	FlowerForest                  ID = 132
	TaigaMountains                ID = 133
	SwampHills                    ID = 134
	IceSpikes                     ID = 140
	ModifiedJungle                ID = 149
	ModifiedJungleEdge            ID = 151
	TallBirchForest               ID = 155
	TallBirchHills                ID = 156
	DarkForestHills               ID = 157
	SnowyTaigaMountains           ID = 158
	GiantSpruceTaiga              ID = 160
	GiantSpruceTaigaHills         ID = 161
	ModifiedGravellyMountains     ID = 162
	ShatteredSavanna              ID = 163
	ShatteredSavannaPlateau       ID = 164
	ErodedBadlands                ID = 165
	ModifiedWoodedBadlandsPlateau ID = 166
	ModifiedBadlandsPlateau       ID = 167
)

// mutation is the offset from a biome to its rare variant.
const mutation = 128

// category groups biomes the generator treats as alike when it looks for
// borders.
type category uint8

const (
	catNone category = iota
	catOcean
	catPlains
	catDesert
	catHills
	catForest
	catTaiga
	catSwamp
	catRiver
	catNether
	catSky
	catSnow
	catMushroom
	catBeach
	catJungle
	catStoneBeach
	catSavanna
	catMesa
)

type info struct {
	name  string
	cat   category
	snowy bool
	// overworld is false for biomes the overworld generator never places
	overworld bool
}

var biomes [256]info

func def(id ID, name string, cat category, snowy bool) {
	biomes[id] = info{name: name, cat: cat, snowy: snowy, overworld: true}
}

func init() {
	def(Ocean, "ocean", catOcean, false)
	def(Plains, "plains", catPlains, false)
	def(Desert, "desert", catDesert, false)
	def(Mountains, "mountains", catHills, false)
	def(Forest, "forest", catForest, false)
	def(Taiga, "taiga", catTaiga, false)
	def(Swamp, "swamp", catSwamp, false)
	def(River, "river", catRiver, false)
	def(Nether, "nether", catNether, false)
	def(TheEnd, "the_end", catSky, false)
	def(FrozenOcean, "frozen_ocean", catOcean, true)
	def(FrozenRiver, "frozen_river", catRiver, true)
	def(SnowyTundra, "snowy_tundra", catSnow, true)
	def(SnowyMountains, "snowy_mountains", catSnow, true)
	def(MushroomFields, "mushroom_fields", catMushroom, false)
	def(MushroomFieldShore, "mushroom_field_shore", catMushroom, false)
	def(Beach, "beach", catBeach, false)
	def(DesertHills, "desert_hills", catDesert, false)
	def(WoodedHills, "wooded_hills", catForest, false)
	def(TaigaHills, "taiga_hills", catTaiga, false)
	def(MountainEdge, "mountain_edge", catHills, false)
	def(Jungle, "jungle", catJungle, false)
	def(JungleHills, "jungle_hills", catJungle, false)
	def(JungleEdge, "jungle_edge", catJungle, false)
	def(DeepOcean, "deep_ocean", catOcean, false)
	def(StoneShore, "stone_shore", catStoneBeach, false)
	def(SnowyBeach, "snowy_beach", catBeach, true)
	def(BirchForest, "birch_forest", catForest, false)
	def(BirchForestHills, "birch_forest_hills", catForest, false)
	def(DarkForest, "dark_forest", catForest, false)
	def(SnowyTaiga, "snowy_taiga", catTaiga, true)
	def(SnowyTaigaHills, "snowy_taiga_hills", catTaiga, true)
	def(GiantTreeTaiga, "giant_tree_taiga", catTaiga, false)
	def(GiantTreeTaigaHills, "giant_tree_taiga_hills", catTaiga, false)
	def(WoodedMountains, "wooded_mountains", catHills, false)
	def(Savanna, "savanna", catSavanna, false)
	def(SavannaPlateau, "savanna_plateau", catSavanna, false)
	def(Badlands, "badlands", catMesa, false)
	def(WoodedBadlandsPlateau, "wooded_badlands_plateau", catMesa, false)
	def(BadlandsPlateau, "badlands_plateau", catMesa, false)
	def(SmallEndIslands, "small_end_islands", catSky, false)
	def(EndMidlands, "end_midlands", catSky, false)
	def(EndHighlands, "end_highlands", catSky, false)
	def(EndBarrens, "end_barrens", catSky, false)
	def(WarmOcean, "warm_ocean", catOcean, false)
	def(LukewarmOcean, "lukewarm_ocean", catOcean, false)
	def(ColdOcean, "cold_ocean", catOcean, false)
	def(DeepWarmOcean, "deep_warm_ocean", catOcean, false)
	def(DeepLukewarmOcean, "deep_lukewarm_ocean", catOcean, false)
	def(DeepColdOcean, "deep_cold_ocean", catOcean, false)
	def(DeepFrozenOcean, "deep_frozen_ocean", catOcean, false)
	def(TheVoid, "the_void", catNone, false)

	for _, m := range []struct {
		id   ID
		name string
	}{
		{SunflowerPlains, "sunflower_plains"},
		{DesertLakes, "desert_lakes"},
		{GravellyMountains, "gravelly_mountains"},
		{FlowerForest, "flower_forest"},
		{TaigaMountains, "taiga_mountains"},
		{SwampHills, "swamp_hills"},
		{IceSpikes, "ice_spikes"},
		{ModifiedJungle, "modified_jungle"},
		{ModifiedJungleEdge, "modified_jungle_edge"},
		{TallBirchForest, "tall_birch_forest"},
		{TallBirchHills, "tall_birch_hills"},
		{DarkForestHills, "dark_forest_hills"},
		{SnowyTaigaMountains, "snowy_taiga_mountains"},
		{GiantSpruceTaiga, "giant_spruce_taiga"},
		{GiantSpruceTaigaHills, "giant_spruce_taiga_hills"},
		{ModifiedGravellyMountains, "modified_gravelly_mountains"},
		{ShatteredSavanna, "shattered_savanna"},
		{ShatteredSavannaPlateau, "shattered_savanna_plateau"},
		{ErodedBadlands, "eroded_badlands"},
		{ModifiedWoodedBadlandsPlateau, "modified_wooded_badlands_plateau"},
		{ModifiedBadlandsPlateau, "modified_badlands_plateau"},
	} {
		base := biomes[m.id-mutation]
		def(m.id, m.name, base.cat, base.snowy)
	}

	for _, id := range []ID{Nether, TheEnd, SmallEndIslands, EndMidlands, EndHighlands, EndBarrens, TheVoid} {
		biomes[id].overworld = false
	}
}

// Exists reports whether id names a biome.
func Exists(id ID) bool {
	return id >= 0 && id < ID(len(biomes)) && biomes[id].name != ""
}

func categoryOf(id ID) category {
	if !Exists(id) {
		return catNone
	}
	return biomes[id].cat
}

func snowy(id ID) bool {
	return Exists(id) && biomes[id].snowy
}

// Oceanic reports whether id is one of the ocean biomes.
func Oceanic(id ID) bool {
	switch id {
	case Ocean, DeepOcean, FrozenOcean, DeepFrozenOcean, WarmOcean, DeepWarmOcean,
		LukewarmOcean, DeepLukewarmOcean, ColdOcean, DeepColdOcean:
		return true
	}
	return false
}

// Fold maps every ocean biome to Ocean. Ocean temperature variants are not
// modelled, so an observed ocean of any kind is only known to be ocean.
func Fold(id ID) ID {
	if Oceanic(id) {
		return Ocean
	}
	return id
}

// Overworld reports whether the overworld generator can place id.
func Overworld(id ID) bool {
	return Exists(id) && biomes[id].overworld
}

// Name returns the game's name for id.
func Name(id ID) string {
	if !Exists(id) {
		return fmt.Sprintf("biome(%d)", id)
	}
	return biomes[id].name
}

// Parse accepts a biome name or a decimal id.
func Parse(text string) (ID, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), " ", "_")
	for id := range biomes {
		if biomes[id].name != "" && biomes[id].name == norm {
			return ID(id), nil
		}
	}
	if n, err := strconv.ParseInt(norm, 10, 32); err == nil && Exists(ID(n)) {
		return ID(n), nil
	}
	return 0, fmt.Errorf("unknown biome %q", text)
}
