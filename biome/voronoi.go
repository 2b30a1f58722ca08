package biome

// voronoiSalt seeds the final 1:4 to 1:1 zoom.
const voronoiSalt = 10

// voronoi maps block coordinates onto the 1:4 cells of the last layer. Each
// cell owns a jittered point and a block takes the value of the nearest one.
type voronoi struct {
	start int64
}

func (v *voronoi) jitter(r *cellRand) float64 {
	return (float64(r.nextInt(1024))/1024.0 - 0.5) * 3.6
}

// cell returns the 1:4 cell whose value block (x, z) takes.
func (v *voronoi) cell(x, z int64) (int64, int64) {
	x -= 2
	z -= 2
	i, j := x>>2, z>>2
	r := newCellRand(v.start)

	r.at(i<<2, j<<2)
	ax, az := v.jitter(&r), v.jitter(&r)
	r.at((i+1)<<2, j<<2)
	bx, bz := v.jitter(&r)+4, v.jitter(&r)
	r.at(i<<2, (j+1)<<2)
	cx, cz := v.jitter(&r), v.jitter(&r)+4
	r.at((i+1)<<2, (j+1)<<2)
	dx, dz := v.jitter(&r)+4, v.jitter(&r)+4

	fx, fz := float64(x&3), float64(z&3)
	da := sq(fz-az) + sq(fx-ax)
	db := sq(fz-bz) + sq(fx-bx)
	dc := sq(fz-cz) + sq(fx-cx)
	dd := sq(fz-dz) + sq(fx-dx)

	switch {
	case da < db && da < dc && da < dd:
		return i, j
	case db < da && db < dc && db < dd:
		return i + 1, j
	case dc < da && dc < db && dc < dd:
		return i, j + 1
	}
	return i + 1, j + 1
}

func sq(f float64) float64 { return f * f }

// parentArea is the 1:4 area covering every cell the blocks of a can take.
func (v *voronoi) parentArea(a Area) Area {
	x0, z0 := (a.X-2)>>2, (a.Z-2)>>2
	x1, z1 := (a.X+int64(a.W)-3)>>2, (a.Z+int64(a.H)-3)>>2
	return Area{X: x0, Z: z0, W: int(x1-x0) + 2, H: int(z1-z0) + 2}
}
