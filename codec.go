package seedfinder

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vktec/seedfinder/biome"
)

// observationFile is the on-disk form of an observation set. YAML is a
// superset of JSON, so both are accepted.
type observationFile struct {
	Origin       *filePoint        `yaml:"origin,omitempty"`
	Observations []fileObservation `yaml:"observations"`
}

type filePoint struct {
	X int32 `yaml:"x"`
	Z int32 `yaml:"z"`
}

type fileLocator struct {
	Kind      string `yaml:"kind,omitempty"`
	X         int32  `yaml:"x"`
	Z         int32  `yaml:"z"`
	Dimension string `yaml:"dimension,omitempty"`
}

type fileObservation struct {
	Feature string      `yaml:"feature"`
	Locator fileLocator `yaml:"locator"`
	Value   fileValue   `yaml:"value"`
}

// fileValue accepts true/false, an integer, {dx, dz}, "none" or a biome name.
type fileValue struct {
	v      Value
	offset bool
	biome  bool
}

func (fv *fileValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			fv.v = Bool(b)
			return nil
		case "!!int":
			var i int64
			if err := node.Decode(&i); err != nil {
				return err
			}
			fv.v = Value(i)
			return nil
		case "!!null":
			fv.v = NoStructure
			return nil
		}
		if strings.EqualFold(node.Value, "none") {
			fv.v = NoStructure
			return nil
		}
		if id, err := biome.Parse(node.Value); err == nil {
			fv.v = Value(id)
			fv.biome = true
			return nil
		}
	case yaml.MappingNode:
		var off struct {
			DX int32 `yaml:"dx"`
			DZ int32 `yaml:"dz"`
		}
		if err := node.Decode(&off); err != nil {
			return err
		}
		fv.v = RegionOffset(off.DX, off.DZ)
		fv.offset = true
		return nil
	}
	return fmt.Errorf("line %d: cannot use %q as an observation value", node.Line, node.Value)
}

func (fv fileValue) MarshalYAML() (any, error) {
	if fv.offset {
		if fv.v == NoStructure {
			return "none", nil
		}
		dx, dz, _ := fv.v.Offset()
		return map[string]int32{"dx": dx, "dz": dz}, nil
	}
	if fv.biome {
		return biome.Name(biome.ID(fv.v)), nil
	}
	return int64(fv.v), nil
}

func (fo fileObservation) observation() (Observation, error) {
	kind, err := ParseFeatureKind(fo.Feature)
	if err != nil {
		return Observation{}, err
	}
	loc := Locator{X: fo.Locator.X, Z: fo.Locator.Z}
	if fo.Locator.Kind == "" {
		loc.Kind = ChunkCoordinate
		if kind == BiomeAt {
			loc.Kind = BiomeSample
		}
	} else if loc.Kind, err = ParseLocatorKind(fo.Locator.Kind); err != nil {
		return Observation{}, err
	}
	if loc.Dimension, err = ParseDimension(fo.Locator.Dimension); err != nil {
		return Observation{}, err
	}
	return Observation{Kind: kind, Locator: loc, Value: fo.Value.v}, nil
}

// DecodeObservations reads an observation file into a new set. Conflicting or
// invalid entries are reported with their position in the file.
func DecodeObservations(r io.Reader) (*ObservationSet, error) {
	var file observationFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode observations: %w", err)
	}

	set := new(ObservationSet)
	if file.Origin != nil {
		set.SetOrigin(file.Origin.X, file.Origin.Z)
	}
	for i, fo := range file.Observations {
		o, err := fo.observation()
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
		if err := set.Add(o); err != nil {
			return nil, fmt.Errorf("observation %d: %w", i, err)
		}
	}
	return set, nil
}

// EncodeObservations writes set in the format DecodeObservations reads.
func EncodeObservations(w io.Writer, set *ObservationSet) error {
	var file observationFile
	if x, z := set.Origin(); x != 0 || z != 0 {
		file.Origin = &filePoint{x, z}
	}
	for _, o := range set.Observations() {
		file.Observations = append(file.Observations, fileObservation{
			Feature: o.Kind.String(),
			Locator: fileLocator{
				Kind:      o.Locator.Kind.String(),
				X:         o.Locator.X,
				Z:         o.Locator.Z,
				Dimension: o.Locator.Dimension.String(),
			},
			Value: fileValue{
				v:      o.Value,
				offset: o.Locator.Kind == RegionCoordinate,
				biome:  o.Locator.Kind == BiomeSample,
			},
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return err
	}
	return enc.Close()
}
