package loader

import "math"

// generateNormals computes smooth vertex normals for a flat xyz position stream. Each triangle's
// face normal is the cross product of its two edges, so its length is proportional to the triangle
// area; it is accumulated onto all three corners and the sums are normalized at the end. Vertices
// touched only by degenerate triangles get the up vector.
//
// Parameters:
//   - positions: the flat xyz position stream
//   - indices: the triangle index buffer
//
// Returns:
//   - []float32: a flat xyz normal stream with one normal per vertex
func generateNormals(positions []float32, indices []uint32) []float32 {
	n := len(positions) / 3
	accum := make([]float32, n*3)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := int(indices[i]), int(indices[i+1]), int(indices[i+2])
		if i0 >= n || i1 >= n || i2 >= n {
			continue
		}

		p0 := positions[i0*3 : i0*3+3]
		p1 := positions[i1*3 : i1*3+3]
		p2 := positions[i2*3 : i2*3+3]

		edge1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		edge2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}

		face := [3]float32{
			edge1[1]*edge2[2] - edge1[2]*edge2[1],
			edge1[2]*edge2[0] - edge1[0]*edge2[2],
			edge1[0]*edge2[1] - edge1[1]*edge2[0],
		}

		for _, idx := range [3]int{i0, i1, i2} {
			accum[idx*3] += face[0]
			accum[idx*3+1] += face[1]
			accum[idx*3+2] += face[2]
		}
	}

	for i := 0; i < n; i++ {
		x, y, z := accum[i*3], accum[i*3+1], accum[i*3+2]
		length := float32(math.Sqrt(float64(x*x + y*y + z*z)))
		if length < 1e-6 {
			accum[i*3], accum[i*3+1], accum[i*3+2] = 0, 1, 0
			continue
		}
		inv := 1 / length
		accum[i*3], accum[i*3+1], accum[i*3+2] = x*inv, y*inv, z*inv
	}
	return accum
}
