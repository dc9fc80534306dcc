// Package vault gives the reconciler its view of the host document
// store: a directory tree of markdown pages addressed by ID, plus the
// persisted settings blob the identity registry lives in.
package vault

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/natefinch/atomic"
)

// DefaultSystemDir is the hidden directory holding persisted state.
const DefaultSystemDir = ".anchorsync"

// Vault is a directory of markdown documents.
type Vault struct {
	Root      string
	SystemDir string
	Include   []string
	Exclude   []string
	Logger    *slog.Logger
}

// Document is one page read into memory together with its mtime, the
// only local modification signal the host exposes.
type Document struct {
	ID      string
	Path    string
	Text    string
	ModTime time.Time
}

// Lines splits the document text, preserving empty lines.
func (d *Document) Lines() []string {
	return strings.Split(d.Text, "\n")
}

// New creates a Vault rooted at path. The path must exist and be a
// directory.
func New(path string, logger *slog.Logger) (*Vault, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("vault path does not exist: %s", path)
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path is not a directory: %s", path)
	}
	return &Vault{
		Root:      path,
		SystemDir: DefaultSystemDir,
		Include:   []string{"**/*.md"},
		Logger:    logger,
	}, nil
}

// Documents scans the vault for matching pages and returns their IDs
// and mtimes without reading contents.
func (v *Vault) Documents() ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(v.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == v.SystemDir || name == ".git" || name == ".obsidian" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(v.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !v.matches(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		docs = append(docs, Document{
			ID:      strings.TrimSuffix(rel, ".md"),
			Path:    path,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk vault dir: %w", err)
	}
	return docs, nil
}

func (v *Vault) matches(rel string) bool {
	included := len(v.Include) == 0
	for _, pat := range v.Include {
		if ok, _ := doublestar.Match(pat, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pat := range v.Exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return false
		}
	}
	return true
}

// resolvePath maps a document ID to its file path. Markdown page IDs
// omit the .md suffix; IDs of files matched through other include
// patterns keep their extension and resolve to the literal path.
func (v *Vault) resolvePath(id string) string {
	plain := filepath.Join(v.Root, filepath.FromSlash(id))
	if info, err := os.Stat(plain); err == nil && !info.IsDir() {
		return plain
	}
	return plain + ".md"
}

// Read loads a document by ID.
func (v *Vault) Read(id string) (*Document, error) {
	path := v.resolvePath(id)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, Path: path, Text: string(data), ModTime: info.ModTime()}, nil
}

// Write replaces the whole document text atomically. A document that
// does not exist yet is created as a markdown page.
func (v *Vault) Write(id, text string) error {
	path := v.resolvePath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if v.Logger != nil {
		v.Logger.Debug("writing document", "id", id, "path", path)
	}
	if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
		return fmt.Errorf("failed to write document %s: %w", id, err)
	}
	return nil
}

// ReplaceLines applies per-line replacements (zero-based) as one atomic
// whole-document rewrite. Out-of-range line numbers are ignored.
func (v *Vault) ReplaceLines(id string, changes map[int]string) error {
	if len(changes) == 0 {
		return nil
	}
	doc, err := v.Read(id)
	if err != nil {
		return err
	}
	lines := doc.Lines()
	for n, text := range changes {
		if n < 0 || n >= len(lines) {
			continue
		}
		lines[n] = text
	}
	return v.Write(id, strings.Join(lines, "\n"))
}

// Append adds lines to the end of the document, creating it if absent.
func (v *Vault) Append(id string, lines []string) error {
	doc, err := v.Read(id)
	text := ""
	if err == nil {
		text = doc.Text
		if text != "" && !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	return v.Write(id, text+strings.Join(lines, "\n")+"\n")
}

// DocumentURL returns the back-reference URL a remote linked resource
// should carry to navigate to this page.
func (v *Vault) DocumentURL(id string) string {
	path := v.resolvePath(id)
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + (&url.URL{Path: filepath.ToSlash(abs)}).EscapedPath()
}
