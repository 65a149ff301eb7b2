package slides

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gobuffalo/packr/v2"
)

var (
	cssBox = packr.New("css", "./assets/css")
	jsBox  = packr.New("js", "./assets/js")

	assetBoxes = []*packr.Box{cssBox, jsBox}
)

// ServeAssets returns a mux serving the embedded browser companion
// (stylesheet and navigation script) under /css/ and /js/.
func ServeAssets() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/css/", http.StripPrefix("/css/", http.FileServer(cssBox)))
	mux.Handle("/js/", http.StripPrefix("/js/", http.FileServer(jsBox)))
	return mux
}

// EmitAssets writes the embedded companion assets next to a rendered
// deck, so the output directory is self-contained.
func EmitAssets(destDir string) error {
	for _, b := range assetBoxes {
		destPath := filepath.Join(destDir, b.Name)
		if err := os.MkdirAll(destPath, 0777); err != nil {
			return err
		}
		for _, f := range b.List() {
			fPath := filepath.Join(destPath, f)
			outDir := filepath.Dir(fPath)

			if outDir != destPath {
				if err := os.MkdirAll(outDir, 0777); err != nil {
					return err
				}
			}
			data, err := b.Find(f)
			if err != nil {
				return err
			}
			if err := os.WriteFile(fPath, data, 0666); err != nil {
				return err
			}
		}
	}
	return nil
}
