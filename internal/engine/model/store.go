package model

// MeshStore holds the GPU-resident vertex and index buffers of one model.
// The vertex buffer carries all positions followed by all normals.
type MeshStore interface {
	VertexBuffer() uint32
	IndexBuffer() uint32
	Destroy()
}

// BufferAllocator uploads mesh data to the GPU.
type BufferAllocator interface {
	CreateMesh(vertices []float32, indices []uint32) (MeshStore, error)
}
