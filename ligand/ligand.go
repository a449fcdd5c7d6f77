/*
 * ligand.go, part of kmcrecon.
 *
 * Copyright 2025 The kmcrecon authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package ligand builds ligand catalogs from a YAML manifest and a directory of
// XYZ template files.
//
// A manifest looks like this:
//
//	templates_dir: mol     # relative to the manifest
//	anchor: 0              # default anchor atom of every template
//	policy: fail           # unknown species at assembly: fail or skip
//	missing: placeholder   # missing template file: fail, skip or placeholder
//	species:
//	  1: O
//	  2: OH
//	anchors:
//	  OHAlX3: 1
//
// Template n is read from <templates_dir>/n.xyz, or from n.xyz.zst, n.xyz.gz
// and the other fileio suffixes.
package ligand

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	kmc "github.com/aldkmc/kmcrecon"
	"github.com/aldkmc/kmcrecon/fileio"
	"github.com/aldkmc/kmcrecon/structio"
	v3 "github.com/aldkmc/kmcrecon/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Missing says what to do when a template file named in the manifest doesn't exist.
type Missing string

const (
	MissingFail        Missing = "fail"
	MissingSkip        Missing = "skip"        //leave the species unmapped
	MissingPlaceholder Missing = "placeholder" //map the species to a single X atom
)

// PlaceholderSymbol is the element of the placeholder template.
const PlaceholderSymbol = "X"

var suffixes = []string{"", ".zst", ".zstd", ".gz", ".flate", ".lzw"}

// Manifest is the YAML description of a catalog.
type Manifest struct {
	TemplatesDir string         `yaml:"templates_dir"`
	Anchor       int            `yaml:"anchor"`
	Policy       string         `yaml:"policy"`
	Missing      Missing        `yaml:"missing"`
	Species      map[int]string `yaml:"species"`
	Anchors      map[string]int `yaml:"anchors"`
}

// ParseManifest decodes a manifest. Unknown keys are an error.
func ParseManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	m := new(Manifest)
	if err := dec.Decode(m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("ligand: empty manifest")
		}
		return nil, fmt.Errorf("ligand: manifest: %w", err)
	}
	if m.Missing == "" {
		m.Missing = MissingFail
	}
	if m.TemplatesDir == "" {
		m.TemplatesDir = "."
	}
	return m, m.Validate()
}

// Validate checks the policies and the species table.
func (M *Manifest) Validate() error {
	if _, err := kmc.ParsePolicy(M.policy()); err != nil {
		return fmt.Errorf("ligand: %w", err)
	}
	switch M.Missing {
	case MissingFail, MissingSkip, MissingPlaceholder:
	default:
		return fmt.Errorf("ligand: missing must be fail, skip or placeholder, not %q", M.Missing)
	}
	if len(M.Species) == 0 {
		return fmt.Errorf("ligand: manifest maps no species")
	}
	for code, name := range M.Species {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("ligand: species %d has an empty template name", code)
		}
	}
	if M.Anchor < 0 {
		return fmt.Errorf("ligand: negative default anchor %d", M.Anchor)
	}
	return nil
}

func (M *Manifest) policy() string {
	if M.Policy == "" {
		return "fail"
	}
	return M.Policy
}

// Names returns the distinct template names of the manifest, sorted.
func (M *Manifest) Names() []string {
	seen := make(map[string]bool)
	var ret []string
	for _, n := range M.Species {
		if !seen[n] {
			seen[n] = true
			ret = append(ret, n)
		}
	}
	sort.Strings(ret)
	return ret
}

// Catalog loads the templates of the manifest from fsys, where the template
// directory is dir, and builds the catalog.
func (M *Manifest) Catalog(fsys fs.FS, dir string, log *zap.Logger) (*kmc.Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	policy, err := kmc.ParsePolicy(M.policy())
	if err != nil {
		return nil, err
	}
	templates := make(map[string]*kmc.Template)
	for _, name := range M.Names() {
		anchor := M.Anchor
		if a, ok := M.Anchors[name]; ok {
			anchor = a
		}
		t, err := loadTemplate(fsys, path.Join(dir, name), name, anchor)
		if errors.Is(err, fs.ErrNotExist) {
			switch M.Missing {
			case MissingSkip:
				log.Warn("no template file, species left unmapped", zap.String("template", name))
				continue
			case MissingPlaceholder:
				log.Warn("no template file, using a placeholder atom", zap.String("template", name))
				t = Placeholder(name)
				err = nil
			}
		}
		if err != nil {
			return nil, fmt.Errorf("ligand: template %s (species %v): %w", name, M.codesOf(name), err)
		}
		templates[name] = t
	}
	cat := kmc.NewCatalog(policy)
	codes := make([]int, 0, len(M.Species))
	for c := range M.Species {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	for _, c := range codes {
		t, ok := templates[M.Species[c]]
		if !ok {
			continue
		}
		if err := cat.Add(c, t); err != nil {
			return nil, err
		}
	}
	log.Info("ligand catalog loaded", zap.Int("species", cat.Len()), zap.Int("templates", len(templates)),
		zap.Stringer("policy", policy))
	return cat, nil
}

func (M *Manifest) codesOf(name string) []int {
	var ret []int
	for c, n := range M.Species {
		if n == name {
			ret = append(ret, c)
		}
	}
	sort.Ints(ret)
	return ret
}

// Placeholder returns a template with a single X atom at the origin.
func Placeholder(name string) *kmc.Template {
	return &kmc.Template{
		Name:   name,
		Atoms:  []*kmc.Atom{{Symbol: PlaceholderSymbol, Name: PlaceholderSymbol + "1"}},
		Coords: v3.Zeros(1),
		Anchor: 0,
	}
}

func loadTemplate(fsys fs.FS, base, name string, anchor int) (*kmc.Template, error) {
	for _, s := range suffixes {
		file := base + ".xyz" + s
		data, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		r, err := fileio.NewReader(file, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		atoms, coords, _, err := structio.ReadXYZ(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		return kmc.NewTemplate(name, atoms, coords, anchor)
	}
	return nil, fmt.Errorf("no %s.xyz file: %w", base, fs.ErrNotExist)
}

// Load reads the manifest at path and builds its catalog. The template directory is
// relative to the manifest unless it is absolute.
func Load(manifest string, log *zap.Logger) (*kmc.Catalog, error) {
	f, err := os.Open(manifest)
	if err != nil {
		return nil, fmt.Errorf("ligand: %w", err)
	}
	defer f.Close()
	m, err := ParseManifest(f)
	if err != nil {
		return nil, err
	}
	return m.Load(filepath.Dir(manifest), log)
}

// Load builds the catalog from the template directory of the manifest, taken
// relative to base when it is not absolute.
func (M *Manifest) Load(base string, log *zap.Logger) (*kmc.Catalog, error) {
	dir := M.TemplatesDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	return M.Catalog(os.DirFS(dir), ".", log)
}
