package main

import (
	"fmt"
	"image/png"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/grid"
)

var slimemapCmd = &cobra.Command{
	Use:   "slimemap",
	Short: "Draw or import slime chunk maps",
}

var renderCmd = &cobra.Command{
	Use:   "render <seed>",
	Short: "Print the slime chunks of a seed",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var importCmd = &cobra.Command{
	Use:   "import <map file>",
	Short: "Convert a scouted slime map into an observation file",
	Long: `Reads a text slime map ('x' slime chunk, '.' plain chunk, '?' unexplored)
and writes the explored chunks as a YAML observation file.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	f := renderCmd.Flags()
	f.Int32("x", -32, "Chunk X of the map's north-west corner")
	f.Int32("z", -32, "Chunk Z of the map's north-west corner")
	f.Int32("width", 64, "Map width in chunks")
	f.Int32("height", 64, "Map height in chunks")
	f.IntP("workers", "j", runtime.GOMAXPROCS(0), "Number of concurrent workers")
	f.String("draw", "", "Output a PNG `file` instead of text")
	f.Int("scale", 4, "Pixels per chunk in the PNG")

	f = importCmd.Flags()
	f.Int32("x", 0, "Chunk X of the map's north-west corner")
	f.Int32("z", 0, "Chunk Z of the map's north-west corner")
	f.Int32("radius", 0, "Only keep chunks within this many chunks of the map centre (0 keeps all)")
	f.Int32("inner-radius", -1, "Drop chunks within this distance of the map centre")

	slimemapCmd.AddCommand(renderCmd, importCmd)
}

func addSlimeMapFlags(f *pflag.FlagSet) {
	f.String("slime-map", "", "Text slime map `file` to add to the observations")
	f.Int32("map-x", 0, "Chunk X of the slime map's north-west corner")
	f.Int32("map-z", 0, "Chunk Z of the slime map's north-west corner")
}

// readSlimeMap loads the map named by --slime-map, or returns nil.
func readSlimeMap(f *pflag.FlagSet) (*grid.Map, error) {
	path, _ := f.GetString("slime-map")
	if path == "" {
		return nil, nil
	}
	x, _ := f.GetInt32("map-x")
	z, _ := f.GetInt32("map-z")
	return parseMapFile(path, x, z)
}

func parseMapFile(path string, x, z int32) (*grid.Map, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	m, err := grid.Parse(file, x, z)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	seed, err := seedfinder.ParseSeed(args[0])
	if err != nil {
		return fmt.Errorf("could not parse seed: %w", err)
	}
	f := cmd.Flags()
	x, _ := f.GetInt32("x")
	z, _ := f.GetInt32("z")
	w, _ := f.GetInt32("width")
	h, _ := f.GetInt32("height")
	workers, _ := f.GetInt("workers")
	if w < 0 || h < 0 {
		return fmt.Errorf("map size must not be negative")
	}

	m := grid.Render(seed, x, z, w, h, workers)
	log.WithField("slime_chunks", m.Count(grid.Slime)).Debug("Rendered slime map")

	drawFile, _ := f.GetString("draw")
	if drawFile == "" {
		_, err := m.WriteTo(cmd.OutOrStdout())
		return err
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

func runImport(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	x, _ := f.GetInt32("x")
	z, _ := f.GetInt32("z")
	m, err := parseMapFile(args[0], x, z)
	if err != nil {
		return err
	}
	if radius, _ := f.GetInt32("radius"); radius > 0 {
		inner, _ := f.GetInt32("inner-radius")
		grid.Mask{ORad: radius, IRad: inner}.Apply(m)
	}

	set, err := seedfinder.NewObservationSet(m.Observations()...)
	if err != nil {
		return err
	}
	set.SetOrigin(x+m.W/2, z+m.H/2)
	log.WithField("observations", set.Len()).Info("Imported slime map")
	return seedfinder.EncodeObservations(cmd.OutOrStdout(), set)
}
