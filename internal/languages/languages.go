
// Package languages holds the registry of locales the docs site is translated into.
package languages

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yml
var defaultLanguagesYAML []byte

// DefaultCode is used when no entry in the file is marked default.
const DefaultCode = "en"

var (
	ErrNoLanguages = errors.New("languages: no entries")
	ErrEmptyCode   = errors.New("languages: empty code")
)

type Language struct {
	Key        string `yaml:"-"`
	Name       string `yaml:"name"`
	NativeName string `yaml:"native_name"`
	Code       string `yaml:"code"`
	Hreflang   string `yaml:"hreflang"`
	Default    bool   `yaml:"default"`
	WIP        bool   `yaml:"wip"`
}

// Registry is immutable once loaded and safe for concurrent use.
type Registry struct {
	langs       []Language
	byCode      map[string]Language
	defaultCode string
}

// Load parses a languages mapping, keeping the order entries appear in.
func Load(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("languages: read: %w", err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("languages: parse: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, ErrNoLanguages
	}
	m := root.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("languages: expected mapping at line %d", m.Line)
	}

	reg := &Registry{byCode: map[string]Language{}}
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := strings.TrimSpace(m.Content[i].Value)
		var lang Language
		if err := m.Content[i+1].Decode(&lang); err != nil {
			return nil, fmt.Errorf("languages: entry %q: %w", key, err)
		}
		lang.Key = key
		if lang.Code == "" {
			lang.Code = key
		}
		if lang.Code == "" {
			return nil, ErrEmptyCode
		}
		if lang.Hreflang == "" {
			lang.Hreflang = lang.Code
		}
		if _, dup := reg.byCode[lang.Code]; dup {
			return nil, fmt.Errorf("languages: duplicate code %q", lang.Code)
		}
		if lang.Default {
			if reg.defaultCode != "" {
				return nil, fmt.Errorf("languages: both %q and %q marked default", reg.defaultCode, lang.Code)
			}
			reg.defaultCode = lang.Code
		}
		reg.byCode[lang.Code] = lang
		reg.langs = append(reg.langs, lang)
	}
	if len(reg.langs) == 0 {
		return nil, ErrNoLanguages
	}
	if reg.defaultCode == "" {
		reg.defaultCode = DefaultCode
	}
	if _, ok := reg.byCode[reg.defaultCode]; !ok {
		return nil, fmt.Errorf("languages: default language %q not listed", reg.defaultCode)
	}
	return reg, nil
}

func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Default returns the registry embedded in the binary.
func Default() *Registry {
	reg, err := Load(bytes.NewReader(defaultLanguagesYAML))
	if err != nil {
		panic(err)
	}
	return reg
}

func (r *Registry) DefaultCode() string { return r.defaultCode }

// Keys returns every published language code in file order.
func (r *Registry) Keys() []string {
	out := make([]string, 0, len(r.langs))
	for _, l := range r.langs {
		if !l.WIP {
			out = append(out, l.Code)
		}
	}
	return out
}

// NonDefault returns Keys without the default language.
func (r *Registry) NonDefault() []string {
	var out []string
	for _, code := range r.Keys() {
		if code != r.defaultCode {
			out = append(out, code)
		}
	}
	return out
}

// All includes work-in-progress languages.
func (r *Registry) All() []Language {
	return append([]Language(nil), r.langs...)
}

func (r *Registry) Get(code string) (Language, bool) {
	l, ok := r.byCode[code]
	return l, ok
}

// Has reports whether code is a published (non-WIP) language.
func (r *Registry) Has(code string) bool {
	l, ok := r.byCode[code]
	return ok && !l.WIP
}

// Split separates the leading path segment from the rest of an URL path.
// lang is empty when the first segment is not a listed language. WIP languages
// are still split off so callers can decide how to treat them.
func (r *Registry) Split(path string) (lang, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	first, remainder, _ := strings.Cut(trimmed, "/")
	if _, ok := r.byCode[first]; !ok {
		return "", path
	}
	return first, "/" + remainder
}
