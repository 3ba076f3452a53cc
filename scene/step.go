package scene

// Step applies the mutations of leaving tick t to the live shapes: every move
// whose interval covers t nudges the reference point by its per-tick delta,
// and every resize starting at t multiplies the current extent by its factor.
// After stepping ticks 0 through n-1 each shape sits where its moves put it at
// tick n. Resizes compound: two resizes by 2 and 3 leave the shape six times
// its declared extent.
func (m *Model) Step(t int) {
	for _, s := range m.shapes {
		for _, c := range s.moves {
			if c.start <= t && t < c.end {
				n := float64(c.end - c.start)
				s.reference = s.reference.Add(Point{
					X: (c.to.X - c.from.X) / n,
					Y: (c.to.Y - c.from.Y) / n,
				})
			}
		}
		for _, c := range s.resizes {
			if c.start == t {
				s.size = s.size.Scale(c.factor)
			}
		}
	}
}
