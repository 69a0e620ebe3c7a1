// Package extract is the batch driver: it discovers macro-capable Office
// files, runs the dir-stream parser on each VBA project and writes the
// extracted module sources into the destination tree. One corrupt file is
// reported and the batch keeps going.
package extract

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/vbatools/vbasrc/internal/office"
	"github.com/vbatools/vbasrc/pkg/ovba"
)

// officeExtensions is the allow-list of macro-capable container
// extensions.
var officeExtensions = map[string]bool{
	".xlsb": true,
	".xls":  true,
	".xlsm": true,
	".xla":  true,
	".xlt":  true,
	".xlam": true,
	".pptm": true,
}

// lockFilePrefix marks Office owner/lock files, which are skipped.
const lockFilePrefix = "~$"

// neutralExtension is appended to every output file unless the original
// extension is kept.
const neutralExtension = ".vb"

// Extractor runs the batch extraction with one fixed configuration.
type Extractor struct {
	cfg    Config
	logger hclog.Logger
	srcEnc encoding.Encoding
	outEnc encoding.Encoding
}

// New resolves the configured encodings and builds an extractor.
func New(cfg Config, logger hclog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	srcEnc, err := htmlindex.Get(cfg.SrcEncoding)
	if err != nil {
		return nil, fmt.Errorf("unknown source encoding %q: %w", cfg.SrcEncoding, err)
	}
	outEnc, err := htmlindex.Get(cfg.OutEncoding)
	if err != nil {
		return nil, fmt.Errorf("unknown output encoding %q: %w", cfg.OutEncoding, err)
	}
	return &Extractor{cfg: cfg, logger: logger, srcEnc: srcEnc, outEnc: outEnc}, nil
}

// Run extracts every discovered source file. Per-file failures are logged
// and counted, never propagated mid-batch.
func (e *Extractor) Run(args []string) error {
	if err := os.MkdirAll(e.cfg.Dest, 0o755); err != nil {
		return err
	}
	sources, err := e.Sources(args)
	if err != nil {
		return err
	}
	var failed int
	for _, src := range sources {
		if err := e.ExtractFile(src); err != nil {
			e.logger.Error("extraction failed", "file", src, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(sources))
	}
	return nil
}

// Sources expands the given paths into the Office files to process. A
// file argument is taken as-is; a directory is searched one level deep,
// or fully when Recursive is set, keeping only allow-listed extensions
// and skipping lock files.
func (e *Extractor) Sources(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		if e.cfg.Recursive {
			err := filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && isOfficeFile(p) {
					out = append(out, p)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, d := range entries {
			if !d.IsDir() && isOfficeFile(d.Name()) {
				out = append(out, filepath.Join(arg, d.Name()))
			}
		}
	}
	return out, nil
}

func isOfficeFile(p string) bool {
	name := filepath.Base(p)
	if strings.HasPrefix(name, lockFilePrefix) {
		return false
	}
	return officeExtensions[strings.ToLower(filepath.Ext(name))]
}

// ExtractFile extracts every VBA project of one Office file into
// <dest>/<source-basename>/. Any previous output for the same basename is
// replaced.
func (e *Extractor) ExtractFile(src string) error {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	destDir := filepath.Join(e.cfg.Dest, base)
	if err := os.RemoveAll(destDir); err != nil {
		return err
	}
	projects, err := office.Open(src)
	if err != nil {
		return err
	}
	e.logger.Info("extracting", "source", src, "dest", destDir, "projects", len(projects))
	for _, proj := range projects {
		if err := e.extractProject(proj, destDir); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extractor) extractProject(proj *office.Project, destDir string) error {
	dir, err := ovba.DecompressStream(proj.Dir)
	if err != nil {
		return fmt.Errorf("dir stream: %w", err)
	}
	parser := ovba.NewDirParserWithLogger(dir, e.cfg.Strict, e.logger.Named("ovba"))
	info, refs, err := parser.Parse()
	if err != nil {
		return err
	}
	for _, d := range info.Diagnostics {
		e.logger.Warn("dir stream diagnostic", "project", info.Name, "detail", d.String())
	}
	e.logger.Debug("project parsed",
		"name", info.Name,
		"platform", info.SysKind.String(),
		"codepage", info.CodePage,
		"references", len(refs),
	)

	modules, err := parser.ParseModules()
	if err != nil {
		return err
	}
	exts := ovba.ModuleExtensions(proj.ProjectStream)
	for _, m := range modules {
		if err := e.writeModule(proj, m, exts, destDir); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extractor) writeModule(proj *office.Project, m ovba.ModuleRecord, exts map[string]string, destDir string) error {
	stream, ok := proj.ModuleStream(m.StreamName)
	if !ok {
		e.logger.Error("module stream missing", "module", m.Name, "stream", m.StreamName)
		return nil
	}
	// The configured source encoding overrides the project codec.
	code, err := m.SourceCode(stream, e.srcEnc)
	if err != nil {
		e.logger.Error("module source unreadable", "module", m.Name, "error", err)
		return nil
	}
	outPath := OutputPath(destDir, moduleFilename(m, exts), e.cfg.UseOrigExtension)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	data, err := e.encodeOut(ovba.FilterSource(code))
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	e.logger.Info("module written", "module", m.Name, "path", outPath)
	return nil
}

// moduleFilename joins the module name with its source extension. The
// PROJECT stream's declaration wins (it knows about forms); the module
// type record decides otherwise.
func moduleFilename(m ovba.ModuleRecord, exts map[string]string) string {
	if ext, ok := exts[m.Name]; ok {
		return m.Name + ext
	}
	return m.Name + m.Type.Ext()
}

// OutputPath places a module file under <dest>/<kind>/, with kind derived
// from the module's extension, appending the neutral suffix unless the
// original extension is kept.
func OutputPath(destDir, filename string, useOrigExtension bool) string {
	var kind string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".cls":
		kind = "class"
	case ".frm":
		kind = "form"
	default:
		kind = "module"
	}
	if !useOrigExtension {
		filename += neutralExtension
	}
	return filepath.Join(destDir, kind, filename)
}

func (e *Extractor) encodeOut(s string) ([]byte, error) {
	return encoding.ReplaceUnsupported(e.outEnc.NewEncoder()).Bytes([]byte(s))
}
