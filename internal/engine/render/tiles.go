// Package render uploads produced tile data into OpenGL textures for the
// demo viewer. The engine core never imports this package: it only decides
// what data must exist, not how it is drawn.
package render

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/terralod/internal/engine/tile"
)

// TileTextures keeps one GL texture per tile key, uploaded lazily and
// dropped when the corresponding tile disappears from its cache.
type TileTextures struct {
	textures map[tile.Key]uint32
}

// NewTileTextures creates an empty texture registry. Requires a current GL
// context.
func NewTileTextures() *TileTextures {
	return &TileTextures{textures: make(map[tile.Key]uint32)}
}

// Texture returns the GL texture for the key, or 0 when none was uploaded.
func (t *TileTextures) Texture(key tile.Key) uint32 {
	return t.textures[key]
}

// UploadR32F uploads a single-channel float32 tile (elevation) of width w.
func (t *TileTextures) UploadR32F(key tile.Key, w int, data []float32) uint32 {
	return t.upload(key, w, gl.R32F, gl.RED, gl.FLOAT, gl.Ptr(data))
}

// UploadRG32F uploads a two-channel float32 tile (packed normals) of width w.
func (t *TileTextures) UploadRG32F(key tile.Key, w int, data []float32) uint32 {
	return t.upload(key, w, gl.RG32F, gl.RG, gl.FLOAT, gl.Ptr(data))
}

// UploadRGBA8 uploads a four-channel byte tile (ortho imagery) of width w.
func (t *TileTextures) UploadRGBA8(key tile.Key, w int, data []byte) uint32 {
	return t.upload(key, w, gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(data))
}

func (t *TileTextures) upload(key tile.Key, w int, internalFormat int32, format, typ uint32, pixels unsafe.Pointer) uint32 {
	texID, ok := t.textures[key]
	if !ok {
		gl.GenTextures(1, &texID)
		t.textures[key] = texID
	}
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, int32(w), int32(w), 0, format, typ, pixels)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}

// Release deletes the texture for a key, if any.
func (t *TileTextures) Release(key tile.Key) {
	if texID, ok := t.textures[key]; ok {
		gl.DeleteTextures(1, &texID)
		delete(t.textures, key)
	}
}

// Close deletes every texture.
func (t *TileTextures) Close() {
	for key, texID := range t.textures {
		gl.DeleteTextures(1, &texID)
		delete(t.textures, key)
	}
}
