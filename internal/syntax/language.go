package syntax

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	gosrc "github.com/smacker/go-tree-sitter/golang"
	jssrc "github.com/smacker/go-tree-sitter/javascript" // JS parser used for JS and JSON
	pythonsrc "github.com/smacker/go-tree-sitter/python"
	rustsrc "github.com/smacker/go-tree-sitter/rust"
)

// Language pairs a grammar with the file extensions it handles.
type Language struct {
	Name       string
	Grammar    *sitter.Language
	Extensions []string
}

var languages = []*Language{
	{Name: "Go", Grammar: gosrc.GetLanguage(), Extensions: []string{".go"}},
	{Name: "Python", Grammar: pythonsrc.GetLanguage(), Extensions: []string{".py", ".pyw"}},
	{Name: "JavaScript", Grammar: jssrc.GetLanguage(), Extensions: []string{".js", ".mjs", ".cjs"}},
	{Name: "JSON", Grammar: jssrc.GetLanguage(), Extensions: []string{".json"}},
	{Name: "Rust", Grammar: rustsrc.GetLanguage(), Extensions: []string{".rs"}},
}

// Languages returns every known language.
func Languages() []*Language {
	out := make([]*Language, len(languages))
	copy(out, languages)
	return out
}

// ForFile picks a language by extension. Returns nil when none matches.
func ForFile(path string) *Language {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return nil
	}
	for _, l := range languages {
		for _, e := range l.Extensions {
			if e == ext {
				return l
			}
		}
	}
	return nil
}

// ByName looks a language up case-insensitively.
func ByName(name string) *Language {
	for _, l := range languages {
		if strings.EqualFold(l.Name, name) {
			return l
		}
	}
	return nil
}
