package main

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/biome"
)

var biomemapCmd = &cobra.Command{
	Use:   "biomemap",
	Short: "Draw biome maps or import river sightings",
}

var biomeRenderCmd = &cobra.Command{
	Use:   "render <seed>",
	Short: "Print the biomes of a seed",
	Long: `Prints the biome id of every block in the area, followed by a legend.
With --layer the map is taken from that generator layer instead, in the
layer's own scale.`,
	Args: cobra.ExactArgs(1),
	RunE: runBiomeRender,
}

var riversCmd = &cobra.Command{
	Use:   "rivers <map file>",
	Short: "Convert a scouted river map into an observation file",
	Long: `Reads a text river map ('r' river, 'f' frozen river, '.' or '?' not
recorded) whose cells are --step blocks apart and writes the rivers as
biome observations.`,
	Args: cobra.ExactArgs(1),
	RunE: runRivers,
}

func init() {
	f := biomeRenderCmd.Flags()
	f.Int64("x", -32, "X of the map's north-west corner")
	f.Int64("z", -32, "Z of the map's north-west corner")
	f.Int("width", 64, "Map width in cells")
	f.Int("height", 64, "Map height in cells")
	f.Int("layer", -1, "Generator layer to draw; -1 draws block biomes")
	f.String("draw", "", "Output a PNG `file` instead of text")
	f.Int("scale", 4, "Pixels per cell in the PNG")

	f = riversCmd.Flags()
	f.Int32("x", 0, "Block X of the map's north-west cell")
	f.Int32("z", 0, "Block Z of the map's north-west cell")
	f.Int32("step", 4, "Blocks between neighbouring cells")

	biomemapCmd.AddCommand(biomeRenderCmd, riversCmd)
}

func runBiomeRender(cmd *cobra.Command, args []string) error {
	seed, err := seedfinder.ParseSeed(args[0])
	if err != nil {
		return fmt.Errorf("could not parse seed: %w", err)
	}
	f := cmd.Flags()
	x, _ := f.GetInt64("x")
	z, _ := f.GetInt64("z")
	w, _ := f.GetInt("width")
	h, _ := f.GetInt("height")
	layer, _ := f.GetInt("layer")
	if w < 0 || h < 0 {
		return fmt.Errorf("map size must not be negative")
	}

	g := biome.NewGenerator(int64(seed))
	a := biome.Area{X: x, Z: z, W: w, H: h}
	var m *biome.Map
	if layer < 0 {
		m = g.Biomes(a)
	} else if m, err = g.Layer(layer, a); err != nil {
		return err
	}
	log.WithField("layer", layer).Debug("Rendered biome map")

	drawFile, _ := f.GetString("draw")
	if drawFile == "" {
		return writeBiomeMap(cmd.OutOrStdout(), m)
	}
	scale, _ := f.GetInt("scale")
	out, err := os.Create(drawFile)
	if err != nil {
		return fmt.Errorf("error opening image file: %w", err)
	}
	if err := png.Encode(out, m.Image(scale)); err != nil {
		out.Close()
		return fmt.Errorf("error writing image: %w", err)
	}
	return out.Close()
}

func writeBiomeMap(w io.Writer, m *biome.Map) error {
	bw := bufio.NewWriter(w)
	var seen []biome.ID
	for j := 0; j < m.H; j++ {
		for i := 0; i < m.W; i++ {
			id := m.Cells[j*m.W+i]
			if i > 0 {
				bw.WriteByte(' ')
			}
			fmt.Fprintf(bw, "%3d", id)
			if !slices.Contains(seen, id) {
				seen = append(seen, id)
			}
		}
		bw.WriteByte('\n')
	}
	slices.Sort(seen)
	for _, id := range seen {
		fmt.Fprintf(bw, "# %3d %s\n", id, biome.Name(id))
	}
	return bw.Flush()
}

// parseRiverMap reads a river map into biome observations at (x, z) plus
// step times the cell offset.
func parseRiverMap(r io.Reader, x, z, step int32) ([]seedfinder.Observation, error) {
	var obs []seedfinder.Observation
	sc := bufio.NewScanner(r)
	row := int32(0)
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if trimmed := strings.TrimSpace(text); trimmed == "" || trimmed[0] == '#' {
			continue
		}
		col := int32(0)
		for i, ch := range text {
			var id biome.ID
			switch ch {
			case ' ', '\t', '\r':
				continue
			case 'r', 'R':
				id = biome.River
			case 'f', 'F':
				id = biome.FrozenRiver
			case '.', '?':
				col++
				continue
			default:
				return nil, fmt.Errorf("line %d, column %d: unexpected %q", line, i+1, ch)
			}
			obs = append(obs, seedfinder.Observation{
				Kind:    seedfinder.BiomeAt,
				Locator: seedfinder.Biome(x+col*step, z+row*step),
				Value:   seedfinder.Value(id),
			})
			col++
		}
		row++
	}
	return obs, sc.Err()
}

func runRivers(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	x, _ := f.GetInt32("x")
	z, _ := f.GetInt32("z")
	step, _ := f.GetInt32("step")
	if step <= 0 {
		return fmt.Errorf("step must be positive")
	}
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()
	obs, err := parseRiverMap(file, x, z, step)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	set, err := seedfinder.NewObservationSet(obs...)
	if err != nil {
		return err
	}
	set.SetOrigin(x>>4, z>>4)
	log.WithField("observations", set.Len()).Info("Imported river map")
	return seedfinder.EncodeObservations(cmd.OutOrStdout(), set)
}
