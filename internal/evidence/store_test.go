package evidence

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataURL(mime string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data))
}

func asJSON(t *testing.T, urls []string) string {
	t.Helper()
	raw, err := json.Marshal(urls)
	require.NoError(t, err)
	return string(raw)
}

func TestParseDataURLs(t *testing.T) {
	tests := []struct {
		name string
		urls []string
		want int
	}{
		{
			name: "tipos permitidos",
			urls: []string{
				dataURL("image/png", []byte("png-bytes")),
				dataURL("image/jpeg", []byte("jpg-bytes")),
				dataURL("image/webp", []byte("webp-bytes")),
			},
			want: 3,
		},
		{
			name: "mime no permitido se descarta",
			urls: []string{
				dataURL("image/gif", []byte("gif")),
				dataURL("application/pdf", []byte("pdf")),
				dataURL("image/png", []byte("ok")),
			},
			want: 1,
		},
		{
			name: "entradas malformadas se descartan",
			urls: []string{
				"no-es-data-url",
				"data:image/png;base64",
				"data:image/png,sin-base64",
				"data:image/png;base64,@@@no-decodifica@@@",
				dataURL("image/png", []byte("ok")),
			},
			want: 1,
		},
		{
			name: "imagen sobredimensionada se descarta",
			urls: []string{
				dataURL("image/png", make([]byte, MaxImageSize+1)),
				dataURL("image/png", []byte("pequeña")),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDataURLs(asJSON(t, tt.urls))
			assert.Len(t, got, tt.want)
		})
	}
}

func TestParseDataURLsBadJSON(t *testing.T) {
	assert.Nil(t, ParseDataURLs("no es json"))
	assert.Nil(t, ParseDataURLs(""))
	assert.Nil(t, ParseDataURLs("   "))
}

func TestPutCapsAtMaxImages(t *testing.T) {
	store := NewStore(t.TempDir())

	var images []Image
	for i := 0; i < MaxImages+1; i++ {
		images = append(images, Image{Ext: "png", Data: []byte{byte(i)}})
	}

	require.NoError(t, store.Put(5, images))

	got, err := store.Get(5)
	require.NoError(t, err)
	assert.Len(t, got, MaxImages, "la séptima imagen se ignora")
}

func TestPutReplaceIsIdempotent(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	images := []Image{
		{Ext: "png", Data: []byte("uno")},
		{Ext: "jpg", Data: []byte("dos")},
	}

	require.NoError(t, store.Put(9, images))
	require.NoError(t, store.Put(9, images))

	entries, err := os.ReadDir(filepath.Join(root, "9"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "sin acumulación de duplicados")

	// reemplazar con menos imágenes elimina las sobrantes
	require.NoError(t, store.Put(9, images[:1]))
	entries, err = os.ReadDir(filepath.Join(root, "9"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGetPreservesInsertionOrder(t *testing.T) {
	store := NewStore(t.TempDir())

	images := []Image{
		{Ext: "png", Data: []byte("primera")},
		{Ext: "webp", Data: []byte("segunda")},
		{Ext: "jpg", Data: []byte("tercera")},
	}
	require.NoError(t, store.Put(3, images))

	got, err := store.Get(3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []byte("primera"), got[0].Data)
	assert.Equal(t, "png", got[0].Ext)
	assert.Equal(t, []byte("segunda"), got[1].Data)
	assert.Equal(t, "webp", got[1].Ext)
	assert.Equal(t, []byte("tercera"), got[2].Data)
	assert.Equal(t, "jpg", got[2].Ext)
}

func TestGetMissingDiagnostic(t *testing.T) {
	store := NewStore(t.TempDir())

	got, err := store.Get(404)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPutEmptyClearsExisting(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	require.NoError(t, store.Put(2, []Image{{Ext: "png", Data: []byte("x")}}))
	require.NoError(t, store.Put(2, nil))

	got, err := store.Get(2)
	require.NoError(t, err)
	assert.Empty(t, got)
}
