package dieselvk

// Vertex matches the pipeline's vertex input: position then color, 32 bytes.
type Vertex struct {
	Pos   [4]float32
	Color [4]float32
}

func xyz1(x, y, z float32) [4]float32 {
	return [4]float32{x, y, z, 1}
}

func face(color [4]float32, corners ...[4]float32) []Vertex {
	vs := make([]Vertex, len(corners))
	for i, c := range corners {
		vs[i] = Vertex{Pos: c, Color: color}
	}
	return vs
}

// CubeVertices is a unit cube of 12 clockwise triangles, one solid color per face.
func CubeVertices() []Vertex {
	var vs []Vertex
	vs = append(vs, face(xyz1(1, 0, 0),
		xyz1(-1, -1, 1), xyz1(-1, 1, 1), xyz1(1, -1, 1),
		xyz1(1, -1, 1), xyz1(-1, 1, 1), xyz1(1, 1, 1))...)
	vs = append(vs, face(xyz1(0, 1, 0),
		xyz1(-1, -1, -1), xyz1(1, -1, -1), xyz1(-1, 1, -1),
		xyz1(-1, 1, -1), xyz1(1, -1, -1), xyz1(1, 1, -1))...)
	vs = append(vs, face(xyz1(0, 0, 1),
		xyz1(-1, 1, 1), xyz1(-1, -1, 1), xyz1(-1, 1, -1),
		xyz1(-1, 1, -1), xyz1(-1, -1, 1), xyz1(-1, -1, -1))...)
	vs = append(vs, face(xyz1(1, 1, 0),
		xyz1(1, 1, 1), xyz1(1, 1, -1), xyz1(1, -1, 1),
		xyz1(1, -1, 1), xyz1(1, 1, -1), xyz1(1, -1, -1))...)
	vs = append(vs, face(xyz1(1, 0, 1),
		xyz1(1, 1, 1), xyz1(-1, 1, 1), xyz1(1, 1, -1),
		xyz1(1, 1, -1), xyz1(-1, 1, 1), xyz1(-1, 1, -1))...)
	vs = append(vs, face(xyz1(0, 1, 1),
		xyz1(1, -1, 1), xyz1(1, -1, -1), xyz1(-1, -1, 1),
		xyz1(-1, -1, 1), xyz1(1, -1, -1), xyz1(-1, -1, -1))...)
	return vs
}

// flattenVertices lays vertices out as the interleaved floats the GPU reads.
func flattenVertices(vs []Vertex) []float32 {
	out := make([]float32, 0, len(vs)*8)
	for _, v := range vs {
		out = append(out, v.Pos[:]...)
		out = append(out, v.Color[:]...)
	}
	return out
}
