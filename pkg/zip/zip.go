// Package zip builds the archive returned by project export.
package zip

import (
	"archive/zip"
	"bytes"
)

// Asset is one downloaded project asset destined for the archive.
type Asset struct {
	Filename string
	Data     []byte
}

// ArchiveAssets packs the assets into a single in-memory zip. Entries that
// cannot be created are skipped rather than failing the whole export.
func ArchiveAssets(assets []Asset) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, asset := range assets {
		w, err := zw.Create(asset.Filename)
		if err != nil {
			continue
		}
		if _, err := w.Write(asset.Data); err != nil {
			return nil
		}
	}
	_ = zw.Close()
	return buf.Bytes()
}
