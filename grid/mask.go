package grid

// Mask is a ring of chunks around the centre of a map. A chunk at squared
// distance d2 from the centre is inside when IRad^2 < d2 <= ORad^2. The zero
// IRad includes everything but the centre, a negative one includes it too.
type Mask struct {
	ORad, IRad int32
}

func (m Mask) Bounds() (w, h int32) {
	w = 2*m.ORad + 1
	return w, w
}

// Query takes offsets from the mask's corner.
func (m Mask) Query(x, z int32) bool {
	x -= m.ORad
	z -= m.ORad
	d2 := x*x + z*z
	return (m.IRad*m.IRad < d2 || m.IRad < 0) && d2 <= m.ORad*m.ORad
}

// Apply forgets every cell of the map outside the mask centred on the map.
func (m Mask) Apply(dst *Map) {
	cx, cz := dst.W/2, dst.H/2
	for z := int32(0); z < dst.H; z++ {
		for x := int32(0); x < dst.W; x++ {
			if !m.Query(x-cx+m.ORad, z-cz+m.ORad) {
				dst.Set(x, z, Unknown)
			}
		}
	}
}
