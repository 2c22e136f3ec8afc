// Package evidence guarda las imágenes de evidencia de un diagnóstico en
// disco, fuera de la transacción de base de datos. Es un canal secundario
// de mejor esfuerzo: perder una imagen nunca tumba el registro principal.
package evidence

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// MaxImages es el tope de evidencias por diagnóstico; las demás se ignoran.
	MaxImages = 6
	// MaxImageSize es el tamaño máximo por imagen (2 MB decodificados).
	MaxImageSize = 2 << 20
)

var allowedMIME = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

type Image struct {
	Ext  string
	Data []byte
}

// ParseDataURLs decodifica un arreglo JSON de data-URLs
// (data:<mime>;base64,<payload>). Las entradas malformadas, con MIME no
// permitido o que exceden el tamaño se descartan en silencio.
func ParseDataURLs(raw string) []Image {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var urls []string
	if err := json.Unmarshal([]byte(raw), &urls); err != nil {
		return nil
	}

	var images []Image
	for _, u := range urls {
		img, ok := decodeDataURL(u)
		if !ok {
			continue
		}
		images = append(images, img)
	}
	return images
}

func decodeDataURL(u string) (Image, bool) {
	if !strings.HasPrefix(u, "data:") {
		return Image{}, false
	}
	meta, payload, found := strings.Cut(u[len("data:"):], ",")
	if !found {
		return Image{}, false
	}

	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return Image{}, false
	}
	ext, ok := allowedMIME[mime]
	if !ok {
		return Image{}, false
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 || len(data) > MaxImageSize {
		return Image{}, false
	}

	return Image{Ext: ext, Data: data}, true
}

type Store struct {
	root string
}

func NewStore(root string) *Store {
	return &Store{root: root}
}

func (s *Store) dir(diagnosticID uint) string {
	return filepath.Join(s.root, fmt.Sprintf("%d", diagnosticID))
}

// Put reemplaza toda la evidencia del diagnóstico: borra el directorio y
// escribe de nuevo, con nombres secuenciales con ceros a la izquierda para
// que el orden de lectura sea el de inserción. Acepta a lo más MaxImages.
func (s *Store) Put(diagnosticID uint, images []Image) error {
	dir := s.dir(diagnosticID)

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing evidence dir: %w", err)
	}
	if len(images) == 0 {
		return nil
	}
	if len(images) > MaxImages {
		images = images[:MaxImages]
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating evidence dir: %w", err)
	}

	for i, img := range images {
		name := fmt.Sprintf("%02d.%s", i+1, img.Ext)
		if err := os.WriteFile(filepath.Join(dir, name), img.Data, 0o644); err != nil {
			return fmt.Errorf("writing evidence %s: %w", name, err)
		}
	}
	return nil
}

// Get devuelve la evidencia almacenada, ordenada por nombre de archivo.
func (s *Store) Get(diagnosticID uint) ([]Image, error) {
	dir := s.dir(diagnosticID)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading evidence dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var images []Image
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading evidence %s: %w", name, err)
		}
		ext := strings.TrimPrefix(filepath.Ext(name), ".")
		images = append(images, Image{Ext: ext, Data: data})
	}
	return images, nil
}
