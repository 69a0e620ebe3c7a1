// Package office locates VBA projects inside MS Office containers: legacy
// OLE compound files (.xls, .xla, .xlt) and OOXML zip packages that embed
// a vbaProject.bin part (.xlsm, .xlsb, .xlam, .pptm).
package office

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/richardlehane/mscfb"
)

// ErrNoVBAProject is returned when a container holds no VBA storage.
var ErrNoVBAProject = errors.New("no VBA project found")

// zipMagic is the local-file-header signature of a zip archive; anything
// else is treated as an OLE compound file.
var zipMagic = []byte("PK\x03\x04")

// Project is one VBA project located inside a container: the compressed
// dir stream, the PROJECT properties stream and the module streams under
// the VBA storage.
type Project struct {
	// Root is the storage path prefix of the VBA root ("" at top level,
	// "macros/" in Word/PowerPoint layouts). For reporting only.
	Root string

	// Dir is the compressed dir stream.
	Dir []byte

	// ProjectStream is the text of the PROJECT properties stream, empty
	// when the container has none.
	ProjectStream string

	streams map[string][]byte
}

// ModuleStream returns the bytes of a module stream by its declared
// stream name. Lookup is case-insensitive, matching CFB semantics.
func (p *Project) ModuleStream(name string) ([]byte, bool) {
	b, ok := p.streams[strings.ToLower(name)]
	return b, ok
}

// Open reads an Office file and returns the VBA projects it contains.
func Open(filename string) ([]*Project, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return FromBytes(data)
}

// FromBytes locates VBA projects in an in-memory container.
func FromBytes(data []byte) ([]*Project, error) {
	if bytes.HasPrefix(data, zipMagic) {
		return fromZip(data)
	}
	return fromOLE(data)
}

func fromZip(data []byte) ([]*Project, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var projects []*Project
	for _, f := range zr.File {
		if !strings.EqualFold(path.Base(f.Name), "vbaProject.bin") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		bin, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		sub, err := fromOLE(bin)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		projects = append(projects, sub...)
	}
	if len(projects) == 0 {
		return nil, ErrNoVBAProject
	}
	return projects, nil
}

func fromOLE(data []byte) ([]*Project, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	// Collect every stream keyed by its lowercased full storage path.
	streams := make(map[string][]byte)
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Size == 0 {
			continue
		}
		buf := make([]byte, entry.Size)
		n, rerr := io.ReadFull(entry, buf)
		if rerr != nil && rerr != io.ErrUnexpectedEOF {
			continue
		}
		full := strings.Join(append(append([]string{}, entry.Path...), entry.Name), "/")
		streams[strings.ToLower(full)] = buf[:n]
	}

	// A VBA root is whatever storage contains VBA/dir; the PROJECT stream
	// sits next to the VBA storage.
	var roots []string
	for p := range streams {
		if strings.HasSuffix(p, "vba/dir") {
			roots = append(roots, strings.TrimSuffix(p, "vba/dir"))
		}
	}
	sort.Strings(roots)

	var projects []*Project
	for _, root := range roots {
		proj := &Project{
			Root:    root,
			Dir:     streams[root+"vba/dir"],
			streams: make(map[string][]byte),
		}
		if text, ok := streams[root+"project"]; ok {
			proj.ProjectStream = string(text)
		}
		prefix := root + "vba/"
		for sp, b := range streams {
			name, ok := strings.CutPrefix(sp, prefix)
			if !ok || name == "dir" || strings.Contains(name, "/") {
				continue
			}
			proj.streams[name] = b
		}
		projects = append(projects, proj)
	}
	if len(projects) == 0 {
		return nil, ErrNoVBAProject
	}
	return projects, nil
}
