// Package formats reads Wavefront OBJ meshes and their MTL material
// libraries into GPU-ready vertex data. Parsing is lenient: malformed
// lines are logged at debug level and skipped, and unreadable files yield
// empty results rather than errors.
package formats
